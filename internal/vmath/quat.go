package vmath

import "math"

// Quat is a rotation quaternion (W is the scalar part).
type Quat struct {
	X, Y, Z, W float64
}

// Identity is the no-rotation quaternion.
var Identity = Quat{W: 1}

// AxisAngle builds a rotation of angle radians around the unit axis.
func AxisAngle(axis Vec3, angle float64) Quat {
	s, c := math.Sincos(angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, c}
}

// Mul returns q*r (apply r first, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Conjugate returns the inverse of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Normalize rescales q to unit length. A zero quaternion becomes Identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Transform is a translation/rotation/uniform-scale placement, used for the
// planet's world placement.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       float64
}

// IdentityTransform places an object at the origin, unrotated, unit scale.
func IdentityTransform() Transform {
	return Transform{Rotation: Identity, Scale: 1}
}

// Apply maps a local point into world space.
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.Scale(t.scale())).Add(t.Translation)
}

// Inverse maps a world point into the transform's local space.
func (t Transform) Inverse(p Vec3) Vec3 {
	local := t.Rotation.Conjugate().Rotate(p.Sub(t.Translation))
	return local.Scale(1 / t.scale())
}

func (t Transform) scale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}
