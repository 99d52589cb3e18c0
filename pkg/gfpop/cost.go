package gfpop

import "math"

// Cost is a quadratic A*mu^2 + B*mu + C over the parameter mu. Every piece
// in a ListPiece carries exactly one Cost; combinators compare and combine
// them as symbolic (A, B, C) triples rather than by re-deriving a minimum
// and comparing floats, so accumulated rounding in one path can't silently
// diverge from another.
type Cost struct {
	A, B, C float64
}

// ZeroCost is the cost accumulated before any point has been folded in.
func ZeroCost() Cost {
	return Cost{}
}

// Eval returns the cost at mu.
func (c Cost) Eval(mu float64) float64 {
	return c.A*mu*mu + c.B*mu + c.C
}

// Argmin returns the unconstrained minimizer. For a degenerate (A=0) cost
// this is taken to be 0 by convention; callers working with a degenerate
// cost must clip against the relevant interval themselves.
func (c Cost) Argmin() float64 {
	if c.A == 0 {
		return 0
	}
	return -c.B / (2 * c.A)
}

// Min returns the unconstrained minimum value.
func (c Cost) Min() float64 {
	if c.A == 0 {
		return c.C
	}
	return c.C - c.B*c.B/(4*c.A)
}

// MinOnInterval returns the minimum of c restricted to the closed interval
// iv. Because c is convex (A >= 0), the restricted minimum is the
// unconstrained minimum when the unconstrained argmin falls inside iv, and
// otherwise the value at whichever endpoint is nearer the argmin.
func (c Cost) MinOnInterval(iv Interval) float64 {
	if iv.IsEmpty() {
		return math.Inf(1)
	}
	am := c.Argmin()
	switch {
	case am < iv.A:
		return c.Eval(iv.A)
	case am > iv.B:
		return c.Eval(iv.B)
	default:
		return c.Min()
	}
}

// AddPoint folds a new observation into the accumulated cost under the
// given robust loss, returning the updated Cost.
func (c Cost) AddPoint(pt Point, robust RobustParams) Cost {
	var w float64
	switch robust.Kind {
	case Huber:
		w = huberWeight(c, pt, robust.K)
	case Biweight:
		w = biweightWeight(c, pt, robust.K)
	default:
		w = pt.W
	}
	return Cost{
		A: c.A + w,
		B: c.B - 2*w*pt.Y,
		C: c.C + w*pt.Y*pt.Y,
	}
}

// AddConstant adds a flat penalty, used when folding in a changepoint
// penalty beta.
func (c Cost) AddConstant(k float64) Cost {
	c.C += k
	return c
}

// shift returns the cost g(mu) = c(mu - delta), i.e. c translated right by
// delta along the mu axis.
func (c Cost) shift(delta float64) Cost {
	return Cost{
		A: c.A,
		B: c.B - 2*c.A*delta,
		C: c.A*delta*delta - c.B*delta + c.C,
	}
}

// decay returns the cost g(mu) = c(mu/gamma), used by down/up edges that
// carry an exponential decay factor between states.
func (c Cost) decay(gamma float64) Cost {
	if gamma == 1 {
		return c
	}
	return Cost{
		A: c.A / (gamma * gamma),
		B: c.B / gamma,
		C: c.C,
	}
}

// rootsBelow returns the interval of mu where c(mu) <= value. For a
// genuinely quadratic cost this is the two-root interval of c(mu)-value;
// a slightly negative discriminant (within float tolerance of zero) is
// clamped to a tangency rather than treated as no-solution, since it
// almost always comes from accumulated rounding rather than a true miss.
func (c Cost) rootsBelow(value float64) Interval {
	if c.A == 0 {
		if c.B == 0 {
			if c.C <= value {
				return Interval{A: math.Inf(-1), B: math.Inf(1)}
			}
			return EmptyInterval()
		}
		root := (value - c.C) / c.B
		if c.B > 0 {
			return Interval{A: math.Inf(-1), B: root}
		}
		return Interval{A: root, B: math.Inf(1)}
	}
	disc := c.B*c.B - 4*c.A*(c.C-value)
	tol := 1e-9 * math.Max(1, math.Abs(c.B*c.B))
	if disc < 0 {
		if disc > -tol {
			disc = 0
		} else {
			return EmptyInterval()
		}
	}
	sq := math.Sqrt(disc)
	lo := (-c.B - sq) / (2 * c.A)
	hi := (-c.B + sq) / (2 * c.A)
	return Interval{A: lo, B: hi}
}

// Equal compares the raw coefficients exactly. It is used to detect that
// two pieces carry the literal same accumulated cost (e.g. after a
// no-op edge), never as a substitute for numeric tolerance comparisons of
// derived quantities like minima or argmins.
func (c Cost) Equal(other Cost) bool {
	return c.A == other.A && c.B == other.B && c.C == other.C
}
