package vmath

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestTryNormalizeDegenerate(t *testing.T) {
	if _, ok := (Vec3{}).TryNormalize(); ok {
		t.Fatal("zero vector should not normalize")
	}
	nan := Vec3{X: math.NaN()}
	if _, ok := nan.TryNormalize(); ok {
		t.Fatal("NaN vector should not normalize")
	}
	n, ok := Vec3{X: 3, Y: 4}.TryNormalize()
	if !ok || !near(n.Length(), 1) {
		t.Fatalf("expected unit vector, got %+v ok=%v", n, ok)
	}
}

func TestRejectFromLeavesTangent(t *testing.T) {
	n := Vec3{X: 1, Y: 1, Z: 0}.Normalize()
	v := Vec3{X: 2, Y: -1, Z: 5}
	r := v.RejectFrom(n)
	if !near(r.Dot(n), 0) {
		t.Fatalf("rejected vector not perpendicular: dot=%g", r.Dot(n))
	}
}

func TestCrossRightHanded(t *testing.T) {
	if got := UnitX.Cross(UnitY); got != UnitZ {
		t.Fatalf("X×Y = %+v, want Z", got)
	}
}

func TestQuatRotateAndInverse(t *testing.T) {
	q := AxisAngle(UnitY, math.Pi/2)
	got := q.Rotate(UnitX)
	if !near(got.X, 0) || !near(got.Z, -1) {
		t.Fatalf("rotating X by +90° about Y = %+v, want -Z", got)
	}
	back := q.Conjugate().Rotate(got)
	if !near(back.X, 1) || !near(back.Z, 0) {
		t.Fatalf("inverse rotation = %+v, want X", back)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{
		Translation: Vec3{X: 10, Y: -3, Z: 2},
		Rotation:    AxisAngle(UnitZ, 0.7),
		Scale:       150,
	}
	p := Vec3{X: 0.3, Y: 0.8, Z: -0.52}
	got := tr.Inverse(tr.Apply(p))
	if !near(got.X, p.X) || !near(got.Y, p.Y) || !near(got.Z, p.Z) {
		t.Fatalf("round trip = %+v, want %+v", got, p)
	}
}

func TestVec2Clamp(t *testing.T) {
	got := Vec2{X: 1.7, Y: -3}.Clamp(-1, 1)
	if got.X != 1 || got.Y != -1 {
		t.Fatalf("clamp = %+v", got)
	}
}
