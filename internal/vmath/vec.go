// Package vmath provides the small float64 vector, quaternion and transform
// types shared by the planet, movement and enemy packages.
package vmath

import "math"

// Vec3 is a 3D vector. Positions on the planet are expressed either on the
// unit sphere (planet-local) or scaled by the planet radius (world space).
type Vec3 struct {
	X, Y, Z float64
}

// Common axes.
var (
	Zero  = Vec3{}
	UnitX = Vec3{X: 1}
	UnitY = Vec3{Y: 1}
	UnitZ = Vec3{Z: 1}
)

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

func (a Vec3) Neg() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// LengthSq returns the squared magnitude.
func (a Vec3) LengthSq() float64 {
	return a.Dot(a)
}

func (a Vec3) Length() float64 {
	return math.Sqrt(a.LengthSq())
}

// DistanceSq returns the squared distance between a and b.
func (a Vec3) DistanceSq(b Vec3) float64 {
	return a.Sub(b).LengthSq()
}

func (a Vec3) Distance(b Vec3) float64 {
	return math.Sqrt(a.DistanceSq(b))
}

// degenerateSq is the squared length below which a vector has no usable direction.
const degenerateSq = 1e-18

// TryNormalize returns the unit vector in the direction of a. ok is false
// when a is (numerically) zero or not finite, and the zero vector is returned.
func (a Vec3) TryNormalize() (Vec3, bool) {
	l2 := a.LengthSq()
	if l2 < degenerateSq || math.IsNaN(l2) || math.IsInf(l2, 0) {
		return Vec3{}, false
	}
	inv := 1 / math.Sqrt(l2)
	return Vec3{a.X * inv, a.Y * inv, a.Z * inv}, true
}

// Normalize returns the unit vector in the direction of a, or zero.
func (a Vec3) Normalize() Vec3 {
	n, _ := a.TryNormalize()
	return n
}

// Lerp interpolates linearly from a toward b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// RejectFrom removes the component of a along the unit vector n, leaving the
// part that lies in the plane perpendicular to n.
func (a Vec3) RejectFrom(n Vec3) Vec3 {
	return a.Sub(n.Scale(a.Dot(n)))
}

// IsFinite reports whether every component is a finite number.
func (a Vec3) IsFinite() bool {
	for _, c := range [3]float64{a.X, a.Y, a.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Vec2 is a 2D vector, used for joystick input.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Length() float64 {
	return math.Hypot(a.X, a.Y)
}

func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Clamp clamps each component into [lo, hi].
func (a Vec2) Clamp(lo, hi float64) Vec2 {
	return Vec2{clamp(a.X, lo, hi), clamp(a.Y, lo, hi)}
}

// Clamp limits v into [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return clamp(v, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
