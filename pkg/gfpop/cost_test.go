package gfpop

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestCostAddPointAccumulatesQuadratic(t *testing.T) {
	c := ZeroCost()
	for _, y := range []float64{1, 2, 3} {
		c = c.AddPoint(Point{Y: y, W: 1}, L2Params())
	}
	if !approxEqual(c.Argmin(), 2, epsilon) {
		t.Fatalf("argmin = %v, want 2 (sample mean)", c.Argmin())
	}
	want := (1-2.0)*(1-2.0) + (2-2.0)*(2-2.0) + (3-2.0)*(3-2.0)
	if !approxEqual(c.Min(), want, epsilon) {
		t.Fatalf("min = %v, want %v", c.Min(), want)
	}
}

func TestCostShiftPreservesShape(t *testing.T) {
	c := Cost{A: 2, B: -4, C: 5} // 2(mu-1)^2 + 3
	shifted := c.shift(1)       // 2((mu-1)-1)^2 + 3, peak argmin moves to 2
	if !approxEqual(shifted.Argmin(), c.Argmin()+1, epsilon) {
		t.Fatalf("shifted argmin = %v, want %v", shifted.Argmin(), c.Argmin()+1)
	}
	if !approxEqual(shifted.Min(), c.Min(), epsilon) {
		t.Fatalf("shift changed the minimum value: got %v want %v", shifted.Min(), c.Min())
	}
}

func TestCostMinOnIntervalClipsToBoundary(t *testing.T) {
	c := Cost{A: 1, B: 0, C: 0} // mu^2, argmin 0
	if v := c.MinOnInterval(Interval{A: 2, B: 5}); !approxEqual(v, 4, epsilon) {
		t.Fatalf("MinOnInterval = %v, want 4 (clipped to left edge)", v)
	}
	if v := c.MinOnInterval(Interval{A: -5, B: -2}); !approxEqual(v, 4, epsilon) {
		t.Fatalf("MinOnInterval = %v, want 4 (clipped to right edge)", v)
	}
	if v := c.MinOnInterval(Interval{A: -1, B: 1}); !approxEqual(v, 0, epsilon) {
		t.Fatalf("MinOnInterval = %v, want 0 (argmin inside interval)", v)
	}
}

func TestCostRootsBelowMatchesDirectSolve(t *testing.T) {
	c := Cost{A: 1, B: 0, C: -4} // mu^2 - 4, roots at -2, 2 for value 0
	iv := c.rootsBelow(0)
	if !approxEqual(iv.A, -2, epsilon) || !approxEqual(iv.B, 2, epsilon) {
		t.Fatalf("rootsBelow(0) = %v, want [-2,2]", iv)
	}
}

func TestHuberDownweightsOutliers(t *testing.T) {
	robust := RobustParams{Kind: Huber, K: 1}
	c := ZeroCost()
	for _, y := range []float64{0, 0, 0, 100} {
		c = c.AddPoint(Point{Y: y, W: 1}, robust)
	}
	if c.Argmin() > 5 {
		t.Fatalf("huber argmin = %v, want an estimate resistant to the outlier at 100", c.Argmin())
	}
}
