package input

import (
	"math"
	"testing"

	"github.com/talgya/green-sphere/internal/config"
	"github.com/talgya/green-sphere/internal/vmath"
)

func TestShape(t *testing.T) {
	cfg := config.Default().Joystick
	cases := []struct {
		raw, want vmath.Vec2
	}{
		{vmath.Vec2{X: 0.2, Y: -0.1}, vmath.Vec2{X: 0.4, Y: -0.2}},
		{vmath.Vec2{X: 0.9, Y: 0.1}, vmath.Vec2{X: 1, Y: 0.2}},
		{vmath.Vec2{X: -3, Y: 3}, vmath.Vec2{X: -1, Y: 1}},
		{vmath.Vec2{X: 0.01, Y: 0.01}, vmath.Vec2{}}, // inside deadzone after scaling
	}
	for _, c := range cases {
		got := Shape(c.raw, &cfg)
		if math.Abs(got.X-c.want.X) > 1e-12 || math.Abs(got.Y-c.want.Y) > 1e-12 {
			t.Fatalf("Shape(%+v)=%+v want %+v", c.raw, got, c.want)
		}
	}
}

func TestWandererStaysInRangeAndIsDeterministic(t *testing.T) {
	cfg := config.Default().Joystick
	a, b := NewWanderer(42), NewWanderer(42)
	moved := false
	for i := 0; i < 600; i++ {
		fa := a.Next(1.0/60, &cfg)
		fb := b.Next(1.0/60, &cfg)
		if fa != fb {
			t.Fatalf("frame %d differs for the same seed", i)
		}
		if math.Abs(fa.Dir.X) > 1 || math.Abs(fa.Dir.Y) > 1 {
			t.Fatalf("frame %d out of range: %+v", i, fa.Dir)
		}
		if fa.Dir.Length() > 0 {
			moved = true
		}
	}
	if !moved {
		t.Fatal("autopilot never produced input")
	}
}
