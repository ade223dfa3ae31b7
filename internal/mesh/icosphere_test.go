package mesh

import (
	"math"
	"testing"

	"github.com/talgya/green-sphere/internal/planet"
)

func uniquePositions(m *Mesh) int {
	seen := make(map[[3]int64]bool)
	for _, p := range m.Positions {
		seen[[3]int64{int64(p.X * 1000), int64(p.Y * 1000), int64(p.Z * 1000)}] = true
	}
	return len(seen)
}

func TestIcosphereCounts(t *testing.T) {
	cases := []struct {
		level     int
		triangles int
		unique    int
	}{
		{0, 20, 12},
		{1, 80, 42},
		{2, 320, 162},
	}
	for _, c := range cases {
		m := Icosphere(c.level)
		if m.TriangleCount() != c.triangles {
			t.Fatalf("level %d: triangles=%d want %d", c.level, m.TriangleCount(), c.triangles)
		}
		if m.VertexCount() != c.triangles*3 {
			t.Fatalf("level %d: vertices=%d want %d", c.level, m.VertexCount(), c.triangles*3)
		}
		if got := uniquePositions(m); got != c.unique {
			t.Fatalf("level %d: unique positions=%d want %d", c.level, got, c.unique)
		}
	}
}

func TestIcosphereOnUnitSphere(t *testing.T) {
	m := Icosphere(2)
	for i, p := range m.Positions {
		if math.Abs(p.Length()-1) > 1e-9 {
			t.Fatalf("vertex %d off the unit sphere: |p|=%f", i, p.Length())
		}
	}
}

func TestPaintWritesWholeTriangle(t *testing.T) {
	m := Icosphere(0)
	m.Paint(4, planet.Polluted)
	for v := 3; v < 6; v++ {
		if m.StateAt(v) != planet.Polluted {
			t.Fatalf("vertex %d shows %v, want Polluted", v, m.StateAt(v))
		}
	}
	if m.StateAt(0) != planet.Wasteland || m.StateAt(6) != planet.Wasteland {
		t.Fatal("neighbouring triangles should be untouched")
	}
}

func TestPaintOutOfRangeIgnored(t *testing.T) {
	m := Icosphere(0)
	m.Paint(-1, planet.Healthy)
	m.Paint(len(m.UVs)+5, planet.Healthy)
}
