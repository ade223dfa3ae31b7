package entropy

import "testing"

func TestSeededIsDeterministic(t *testing.T) {
	a, b := NewSeeded(7), NewSeeded(7)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d differs for the same seed", i)
		}
	}
}

func TestChanceBounds(t *testing.T) {
	src := Fixed{F: 0.999}
	if !Chance(src, 1.0) {
		t.Fatal("p=1 must always happen")
	}
	if Chance(Fixed{F: 0}, 0) {
		t.Fatal("p=0 must never happen")
	}
	if Chance(src, 0.5) {
		t.Fatal("0.999 >= 0.5 should fail the roll")
	}
}

func TestFixedIntnClamps(t *testing.T) {
	if got := (Fixed{I: 9}).Intn(3); got != 2 {
		t.Fatalf("Intn clamp = %d, want 2", got)
	}
	if got := (Fixed{I: 1}).Intn(0); got != 0 {
		t.Fatalf("Intn(0) = %d, want 0", got)
	}
}

func TestRange(t *testing.T) {
	if got := Range(Fixed{F: 0.5}, -1, 1); got != 0 {
		t.Fatalf("Range midpoint = %f", got)
	}
}
