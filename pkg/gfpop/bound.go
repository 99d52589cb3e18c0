package gfpop

// Bound is the admissible parameter range [M, MM] each segment's mean must
// lie within. Constrained reports whether the caller supplied the bound;
// input validation checks M <= MM only for a constrained bound. An
// unconstrained bound still carries finite M/MM so interval arithmetic
// never has to special-case infinities, and Clamp applies to both kinds.
type Bound struct {
	M, MM       float64
	Constrained bool
}

// UnconstrainedBound returns the bound used when the caller supplied no
// domain restriction, spanning a wide-enough range for typical signals.
func UnconstrainedBound() Bound {
	return Bound{M: -1e8, MM: 1e8, Constrained: false}
}

// NewBound returns a constrained bound [m, mm].
func NewBound(m, mm float64) Bound {
	return Bound{M: m, MM: mm, Constrained: true}
}

// Clamp restricts x to [M, MM], reporting whether clamping changed it.
func (b Bound) Clamp(x float64) (clamped float64, forced bool) {
	if x < b.M {
		return b.M, true
	}
	if x > b.MM {
		return b.MM, true
	}
	return x, false
}

// Interval returns the bound as an Interval.
func (b Bound) Interval() Interval {
	return Interval{A: b.M, B: b.MM}
}
