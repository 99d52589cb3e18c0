package gfpop

import "testing"

func TestIntervalIntersectNormalizesInvertedBounds(t *testing.T) {
	// A raw struct literal with A > B is not flagged empty by IsEmpty, but
	// Intersect must still normalize to EmptyInterval when the true overlap
	// is empty.
	iv := Interval{A: -10, B: -20}
	got := iv.Intersect(NewInterval(-100, 100))
	if !got.IsEmpty() {
		t.Fatalf("Intersect of inverted range = %v, want empty", got)
	}
}

func TestIntervalIntersectOverlap(t *testing.T) {
	a := NewInterval(0, 10)
	b := NewInterval(5, 15)
	got := a.Intersect(b)
	if got.A != 5 || got.B != 10 {
		t.Fatalf("Intersect = %v, want [5,10]", got)
	}
}

func TestIntervalContains(t *testing.T) {
	iv := NewInterval(1, 3)
	if !iv.Contains(2) {
		t.Fatal("expected 2 to be contained in [1,3]")
	}
	if iv.Contains(4) {
		t.Fatal("expected 4 not to be contained in [1,3]")
	}
}

func TestEmptyIntervalWidthIsNegativeOrZero(t *testing.T) {
	e := EmptyInterval()
	if !e.IsEmpty() {
		t.Fatal("EmptyInterval should report IsEmpty")
	}
	if w := e.Width(); w > 0 {
		t.Fatalf("EmptyInterval width = %v, want <= 0", w)
	}
}
