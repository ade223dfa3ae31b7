package planet

import (
	"log/slog"

	"github.com/talgya/green-sphere/internal/vmath"
)

// Data is the planet's tile store. Positions and Adjacency are fixed after
// construction; States is mutated only through the methods below so that
// every transition reaches the painter.
type Data struct {
	Positions []vmath.Vec3 // unit-sphere vertex positions, parallel to States
	States    []TileState
	Adjacency [][]int
	Radius    float64 // world-space planet radius

	// RepolluteHealthy allows contagion and stains to turn Healthy tiles
	// back into Polluted ones.
	RepolluteHealthy bool

	painter Painter
}

// New creates a planet over the given mesh positions, all tiles Wasteland.
// Adjacency is left empty until BuildGraph runs; contagion is a no-op until then.
func New(positions []vmath.Vec3, radius float64, painter Painter) *Data {
	if painter == nil {
		painter = noopPainter{}
	}
	return &Data{
		Positions:        positions,
		States:           make([]TileState, len(positions)),
		Radius:           radius,
		RepolluteHealthy: true,
		painter:          painter,
	}
}

// BuildGraph computes the adjacency graph from the positions. Call once,
// after mesh generation and before the first contagion tick.
func (d *Data) BuildGraph() {
	d.Adjacency = BuildAdjacency(d.Positions)
	slog.Debug("planet adjacency built", "vertices", len(d.Positions))
}

// VertexCount returns the number of tiles.
func (d *Data) VertexCount() int {
	return len(d.States)
}

// HasGraph reports whether adjacency has been built.
func (d *Data) HasGraph() bool {
	return len(d.Adjacency) > 0 && len(d.Adjacency) == len(d.States)
}

// WorldPosition returns vertex i scaled to the planet radius (planet at origin).
func (d *Data) WorldPosition(i int) vmath.Vec3 {
	return d.Positions[i].Scale(d.Radius)
}

// Set changes the state of vertex i and writes it through to the painter.
// It returns false when the vertex already had that state.
func (d *Data) Set(i int, s TileState) bool {
	if i < 0 || i >= len(d.States) || d.States[i] == s {
		return false
	}
	d.States[i] = s
	d.painter.Paint(i, s)
	return true
}

// CanPollute reports whether vertex i may become Polluted.
func (d *Data) CanPollute(i int) bool {
	switch d.States[i] {
	case Polluted:
		return false
	case Healthy:
		return d.RepolluteHealthy
	default:
		return true
	}
}

// Reset returns every tile to Wasteland.
func (d *Data) Reset() {
	for i := range d.States {
		d.Set(i, Wasteland)
	}
}

// Counts tallies tiles per state.
type Counts struct {
	Wasteland int `json:"wasteland"`
	Healthy   int `json:"healthy"`
	Polluted  int `json:"polluted"`
}

// Total returns the number of tiles counted.
func (c Counts) Total() int {
	return c.Wasteland + c.Healthy + c.Polluted
}

// HealthyFraction returns the share of Healthy tiles, 0 when empty.
func (c Counts) HealthyFraction() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Healthy) / float64(c.Total())
}

// Count tallies the current tile states.
func (d *Data) Count() Counts {
	var c Counts
	for _, s := range d.States {
		switch s {
		case Wasteland:
			c.Wasteland++
		case Healthy:
			c.Healthy++
		case Polluted:
			c.Polluted++
		}
	}
	return c
}

// PolluteArea stamps a pollution stain: every vertex whose unit position lies
// within radiusNormalized of the direction of localPos becomes Polluted.
// It returns the number of tiles that changed.
func (d *Data) PolluteArea(localPos vmath.Vec3, radiusNormalized float64) int {
	center, ok := localPos.TryNormalize()
	if !ok {
		return 0
	}
	r2 := radiusNormalized * radiusNormalized
	changed := 0
	for i, v := range d.Positions {
		if v.DistanceSq(center) >= r2 || !d.CanPollute(i) {
			continue
		}
		if d.Set(i, Polluted) {
			changed++
		}
	}
	return changed
}
