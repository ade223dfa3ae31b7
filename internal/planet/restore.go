package planet

import (
	"math"

	"github.com/talgya/green-sphere/internal/vmath"
)

// Restoration is one tile restored by the brush.
type Restoration struct {
	Vertex int
	From   TileState
	Points int
}

// Restore converts every Wasteland or Polluted tile under the brush to
// Healthy. The player's world position is mapped into planet-local space and
// projected onto the unit sphere; the brush radius is the player radius times
// brushScale, normalized by the planet radius. Healthy tiles are skipped.
func (d *Data) Restore(playerPos vmath.Vec3, playerRadius float64, planet vmath.Transform, brushScale float64) []Restoration {
	if d == nil || d.Radius <= 0 || playerRadius <= 0 {
		return nil
	}
	center, ok := planet.Inverse(playerPos).TryNormalize()
	if !ok {
		return nil
	}
	r := playerRadius * brushScale / d.Radius
	r2 := r * r

	var out []Restoration
	for i, v := range d.Positions {
		s := d.States[i]
		if s == Healthy {
			continue
		}
		// Coarse reject on one axis before the full distance test.
		if math.Abs(v.Y-center.Y) > r {
			continue
		}
		if v.DistanceSq(center) >= r2 {
			continue
		}
		d.Set(i, Healthy)
		out = append(out, Restoration{Vertex: i, From: s, Points: RestorePoints(s)})
	}
	return out
}
