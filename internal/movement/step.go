package movement

import (
	"math"

	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/vmath"
)

// Step advances the ball by dt seconds. in.X steers right, in.Y forward,
// both relative to the ball's heading. A pending dash impulse is consumed.
func Step(b *Ball, in vmath.Vec2, dash *DashState, s *config.Settings, dt float64) {
	if b == nil || dt <= 0 {
		return
	}
	n := b.Normal()
	size := SizeFactor(b.Radius)
	accel := s.Player.Acceleration * size
	maxSpeed := s.Player.MaxSpeed * size

	forward := b.Forward
	right := b.Right()
	steer := right.Scale(in.X).Add(forward.Scale(in.Y))

	if in.Length() > inputThreshold {
		b.Velocity = b.Velocity.Add(steer.Scale(accel * dt))
	}

	dashing := dash != nil && dash.Active
	if dash != nil && dash.TakeImpulse() {
		var dir vmath.Vec3
		var ok bool
		if in.Length() > dashInputThreshold {
			dir, ok = steer.TryNormalize()
		} else {
			dir, ok = b.Velocity.TryNormalize()
		}
		if ok {
			b.Velocity = b.Velocity.Add(dir.Scale(s.Dash.Force * size))
		}
	}

	b.Velocity = b.Velocity.RejectFrom(n)

	frames := dt * referenceFPS
	if dashing {
		b.Velocity = b.Velocity.Scale(math.Pow(dashFriction, frames))
	} else {
		b.Velocity = b.Velocity.Scale(math.Pow(s.Planet.Friction, frames))
		if speed := b.Velocity.Length(); speed > maxSpeed {
			target := b.Velocity.Scale(maxSpeed / speed)
			b.Velocity = b.Velocity.Lerp(target, overspeedLerp)
		}
	}

	speed := b.Velocity.Length()
	shell := s.Planet.Radius + b.Radius
	next, ok := b.Position.Add(b.Velocity.Scale(dt)).TryNormalize()
	if !ok {
		return
	}
	b.Position = next.Scale(shell)

	// Carry velocity and heading onto the new tangent plane.
	if v, ok := b.Velocity.RejectFrom(next).TryNormalize(); ok {
		b.Velocity = v.Scale(speed)
	} else {
		b.Velocity = vmath.Zero
	}
	if f, ok := b.Forward.RejectFrom(next).TryNormalize(); ok {
		b.Forward = f
	}

	roll(b, next, speed, dt)
}

// roll spins the ball about the axis perpendicular to its travel.
func roll(b *Ball, n vmath.Vec3, speed, dt float64) {
	if speed <= rollMinSpeed || b.Radius <= 0 {
		return
	}
	axis, ok := b.Velocity.Cross(n).TryNormalize()
	if !ok {
		return
	}
	b.Spin = vmath.AxisAngle(axis, speed*dt/b.Radius).Mul(b.Spin).Normalize()
}
