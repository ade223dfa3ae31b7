// Package movement rolls the player ball over the planet surface.
//
// The ball floats freely on a shell of radius planetRadius+ballRadius around
// the planet center. Velocity always lies in the local tangent plane and the
// heading is carried along with the ball so that input stays relative to the
// direction of travel.
package movement

import (
	"math"

	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/vmath"
)

const (
	inputThreshold     = 0.01 // below this the stick is ignored
	dashInputThreshold = 0.1  // below this the dash follows the velocity
	rollMinSpeed       = 0.1
	dashFriction       = 0.99
	overspeedLerp      = 0.1
	referenceFPS       = 60.0
)

// Ball is the player.
type Ball struct {
	Position      vmath.Vec3 `json:"position"` // world space, planet at origin
	Velocity      vmath.Vec3 `json:"velocity"`
	Forward       vmath.Vec3 `json:"forward"` // unit tangent heading
	Spin          vmath.Quat `json:"spin"`    // accumulated roll orientation
	HP            float64    `json:"hp"`
	Invincibility float64    `json:"invincibility"` // seconds remaining
	Radius        float64    `json:"radius"`
}

// NewBall places a full-health ball at the north pole heading toward -Z.
func NewBall(planetRadius float64, cfg *config.PlayerSettings) *Ball {
	b := &Ball{}
	b.Reset(planetRadius, cfg)
	return b
}

// Reset restores the spawn state in place.
func (b *Ball) Reset(planetRadius float64, cfg *config.PlayerSettings) {
	*b = Ball{
		Forward: vmath.Vec3{Z: -1},
		Spin:    vmath.Identity,
		HP:      cfg.MaxHP,
	}
	b.SyncHealth(cfg)
	b.Position = vmath.UnitY.Scale(planetRadius + b.Radius)
}

// Normal returns the outward surface normal under the ball.
func (b *Ball) Normal() vmath.Vec3 {
	n, ok := b.Position.TryNormalize()
	if !ok {
		return vmath.UnitY
	}
	return n
}

// Right returns the tangent pointing to the right of the heading.
func (b *Ball) Right() vmath.Vec3 {
	return b.Forward.Cross(b.Normal())
}

// Speed returns the ball's tangential speed.
func (b *Ball) Speed() float64 {
	return b.Velocity.Length()
}

// SizeFactor scales acceleration and top speed by ball size: small balls are
// nimble, big ones sluggish.
func SizeFactor(radius float64) float64 {
	if radius <= 0 {
		return 2
	}
	return vmath.Clamp(4/radius, 0.2, 2)
}

// SyncHealth derives the radius from hp.
func (b *Ball) SyncHealth(cfg *config.PlayerSettings) {
	r := b.HP / cfg.MaxHP * cfg.MaxHPRadius
	b.Radius = math.Max(r, cfg.MinRadius)
}

// Damage subtracts hp (floored at zero) and starts invincibility.
func (b *Ball) Damage(amount, invincibleFor float64) {
	b.HP = math.Max(b.HP-amount, 0)
	b.Invincibility = invincibleFor
}

// Heal adds hp up to max.
func (b *Ball) Heal(amount, max float64) {
	b.HP = math.Min(b.HP+amount, max)
}

// Dead reports whether hp is exhausted.
func (b *Ball) Dead() bool {
	return b.HP <= 0
}

// TickInvincibility counts the invincibility timer down to zero.
func (b *Ball) TickInvincibility(dt float64) {
	if b.Invincibility > 0 {
		b.Invincibility = math.Max(b.Invincibility-dt, 0)
	}
}
