package gfpop

import (
	"math"
	"sort"
)

// ListPiece is an ordered, contiguous sequence of Pieces spanning a single
// domain interval. It is the running representation of one state's
// piecewise-quadratic cost-to-go function during the dynamic program.
//
// The original algorithm this package is modeled on represents this
// sequence as a singly-linked list threaded through each piece's own "next"
// pointer. A slice is the idiomatic Go equivalent: pieces stay ordered by
// construction, and every combinator below returns a freshly built slice
// rather than splicing pointers in place.
type ListPiece struct {
	Pieces []Piece
}

// newFlatListPiece builds a single-piece list spanning the whole bound.
func newFlatListPiece(bound Bound, cost Cost) ListPiece {
	return ListPiece{Pieces: []Piece{{Interval: bound.Interval(), Cost: cost}}}
}

// infListPiece builds a single-piece list that is +Inf everywhere, used to
// seed graph states that have not yet become reachable.
func infListPiece(bound Bound) ListPiece {
	return newFlatListPiece(bound, Cost{C: math.Inf(1)})
}

// Eval returns the cost at mu, using the piece whose interval contains it.
func (lp ListPiece) Eval(mu float64) float64 {
	for _, p := range lp.Pieces {
		if p.Interval.Contains(mu) {
			return p.Cost.Eval(mu)
		}
	}
	return math.Inf(1)
}

// AddPoint folds a new observation into every piece's accumulated cost.
func (lp ListPiece) AddPoint(pt Point, robust RobustParams) ListPiece {
	out := make([]Piece, len(lp.Pieces))
	for i, p := range lp.Pieces {
		out[i] = p
		out[i].Cost = p.Cost.AddPoint(pt, robust)
	}
	return ListPiece{Pieces: out}
}

// AddConstant adds k to every piece's cost, used to charge a changepoint
// penalty once per edge traversal.
func (lp ListPiece) AddConstant(k float64) ListPiece {
	out := make([]Piece, len(lp.Pieces))
	for i, p := range lp.Pieces {
		out[i] = p
		out[i].Cost = p.Cost.AddConstant(k)
	}
	return ListPiece{Pieces: out}
}

// retag overwrites every piece's Track with the supplied template, setting
// each piece's Position to its index in the list. Provenance through an
// edge construction is not tracked piece-by-piece; only the edge's own
// (label, state, parentState) identity is recorded on the result.
func (lp ListPiece) retag(label, state, parentState int) ListPiece {
	out := make([]Piece, len(lp.Pieces))
	for i, p := range lp.Pieces {
		out[i] = p
		out[i].Track = Track{Label: label, State: state, ParentState: parentState, Position: i}
	}
	return ListPiece{Pieces: out}
}

// GlobalMin returns the minimum value attained anywhere in the list, the mu
// that attains it, and the winning piece. Ties are broken by the piece
// Track: smaller Label first, then smaller State, matching the
// determinism requirement placed on every minimum taken during the
// dynamic program.
func (lp ListPiece) GlobalMin() (value, argmin float64, winner Piece) {
	value = math.Inf(1)
	for _, p := range lp.Pieces {
		v := p.minOnInterval()
		better := v < value
		tie := v == value && lessTrack(p.Track, winner.Track)
		if better || tie {
			value = v
			am := clampFloat(p.Cost.Argmin(), p.Interval.A, p.Interval.B)
			argmin = am
			winner = p
		}
	}
	return value, argmin, winner
}

// restrictedMin is GlobalMin computed only over the portion of lp that
// falls within iv, used during backtracking once a parent segment's
// admissible range has been narrowed by the edge it arrived through.
func (lp ListPiece) restrictedMin(iv Interval) (value, argmin float64, winner Piece) {
	value = math.Inf(1)
	for _, p := range lp.Pieces {
		sub := p.Interval.Intersect(iv)
		if sub.IsEmpty() {
			continue
		}
		v := p.Cost.MinOnInterval(sub)
		better := v < value
		tie := v == value && lessTrack(p.Track, winner.Track)
		if better || tie {
			value = v
			argmin = clampFloat(p.Cost.Argmin(), sub.A, sub.B)
			winner = p
		}
	}
	return value, argmin, winner
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func lessTrack(a, b Track) bool {
	if a.Label != b.Label {
		return a.Label < b.Label
	}
	return a.State < b.State
}

// mergeAdjacent coalesces consecutive pieces that carry literally the same
// cost and track, keeping piece counts from growing purely from bookkeeping
// rather than genuine structure in the cost function.
func mergeAdjacent(pieces []Piece) []Piece {
	if len(pieces) == 0 {
		return pieces
	}
	out := make([]Piece, 0, len(pieces))
	out = append(out, pieces[0])
	for _, p := range pieces[1:] {
		last := &out[len(out)-1]
		if last.Cost.Equal(p.Cost) && last.Track == p.Track && last.Interval.B == p.Interval.A {
			last.Interval.B = p.Interval.B
			continue
		}
		out = append(out, p)
	}
	return out
}

// clipToBound restricts pieces to [bound.M, bound.MM], padding any
// uncovered portion of the bound with a constant +Inf piece.
func clipToBound(pieces []Piece, bound Bound) []Piece {
	var out []Piece
	for _, p := range pieces {
		a := math.Max(p.Interval.A, bound.M)
		b := math.Min(p.Interval.B, bound.MM)
		if a < b {
			out = append(out, Piece{Interval: Interval{A: a, B: b}, Cost: p.Cost, Track: p.Track})
		}
	}
	if len(out) == 0 {
		return []Piece{{Interval: bound.Interval(), Cost: Cost{C: math.Inf(1)}}}
	}
	if out[0].Interval.A > bound.M {
		out = append([]Piece{{Interval: Interval{A: bound.M, B: out[0].Interval.A}, Cost: Cost{C: math.Inf(1)}}}, out...)
	}
	last := &out[len(out)-1]
	if last.Interval.B < bound.MM {
		out = append(out, Piece{Interval: Interval{A: last.Interval.B, B: bound.MM}, Cost: Cost{C: math.Inf(1)}})
	}
	return out
}

// isInfCost reports whether c is the all-infinity placeholder used for
// unreachable states and padding.
func isInfCost(c Cost) bool {
	return c.A == 0 && c.B == 0 && math.IsInf(c.C, 1)
}

// quadraticRoots returns the real roots of c(mu) = 0, sorted ascending.
// A near-zero negative discriminant is clamped to a tangency: in this
// algorithm it almost always comes from the accumulated rounding of a
// difference-of-costs rather than a genuine miss.
func quadraticRoots(c Cost) []float64 {
	if c.A == 0 {
		if c.B == 0 {
			return nil
		}
		return []float64{-c.C / c.B}
	}
	disc := c.B*c.B - 4*c.A*c.C
	tol := 1e-9 * math.Max(1, c.B*c.B)
	if disc < 0 {
		if disc > -tol {
			disc = 0
		} else {
			return nil
		}
	}
	sq := math.Sqrt(disc)
	r1 := (-c.B - sq) / (2 * c.A)
	r2 := (-c.B + sq) / (2 * c.A)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	if r1 == r2 {
		return []float64{r1}
	}
	return []float64{r1, r2}
}

// envelopeStep returns the pointwise minimum of two costs restricted to
// sub, split into as many pieces as the two quadratics cross within sub.
// This is the single primitive behind every envelope computation in the
// package: the two-list minimum (§ min_function) and the running-minimum
// sweep both reduce to repeated calls of this on progressively smaller
// sub-intervals.
func envelopeStep(cA Cost, tA Track, cB Cost, tB Track, sub Interval) []Piece {
	if sub.Width() <= 0 {
		return nil
	}
	aInf, bInf := isInfCost(cA), isInfCost(cB)
	switch {
	case aInf && bInf:
		winner := tB
		if lessTrack(tA, tB) {
			winner = tA
		}
		return []Piece{{Interval: sub, Cost: Cost{C: math.Inf(1)}, Track: winner}}
	case aInf:
		return []Piece{{Interval: sub, Cost: cB, Track: tB}}
	case bInf:
		return []Piece{{Interval: sub, Cost: cA, Track: tA}}
	}

	diff := Cost{A: cA.A - cB.A, B: cA.B - cB.B, C: cA.C - cB.C}
	roots := quadraticRoots(diff)
	var bpts []float64
	for _, r := range roots {
		if r > sub.A && r < sub.B {
			bpts = append(bpts, r)
		}
	}
	sort.Float64s(bpts)
	bounds := append([]float64{sub.A}, append(bpts, sub.B)...)

	out := make([]Piece, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		lo, hi := bounds[i], bounds[i+1]
		if hi <= lo {
			continue
		}
		mid := (lo + hi) / 2
		dv := diff.Eval(mid)
		winCost, winTrack := cB, tB
		switch {
		case dv < 0:
			winCost, winTrack = cA, tA
		case dv == 0:
			if lessTrack(tA, tB) {
				winCost, winTrack = cA, tA
			}
		}
		out = append(out, Piece{Interval: Interval{A: lo, B: hi}, Cost: winCost, Track: winTrack})
	}
	return out
}

// minFunction combines two lists spanning the same domain into their
// pointwise minimum envelope.
func minFunction(a, b ListPiece) ListPiece {
	bpSet := make(map[float64]struct{})
	for _, p := range a.Pieces {
		bpSet[p.Interval.A] = struct{}{}
		bpSet[p.Interval.B] = struct{}{}
	}
	for _, p := range b.Pieces {
		bpSet[p.Interval.A] = struct{}{}
		bpSet[p.Interval.B] = struct{}{}
	}
	bps := make([]float64, 0, len(bpSet))
	for x := range bpSet {
		bps = append(bps, x)
	}
	sort.Float64s(bps)

	var out []Piece
	for i := 0; i < len(bps)-1; i++ {
		lo, hi := bps[i], bps[i+1]
		if hi <= lo {
			continue
		}
		mid := (lo + hi) / 2
		pa := a.pieceAt(mid)
		pb := b.pieceAt(mid)
		out = append(out, envelopeStep(pa.Cost, pa.Track, pb.Cost, pb.Track, Interval{A: lo, B: hi})...)
	}
	return ListPiece{Pieces: mergeAdjacent(out)}
}

func (lp ListPiece) pieceAt(x float64) Piece {
	for _, p := range lp.Pieces {
		if x >= p.Interval.A && x <= p.Interval.B {
			return p
		}
	}
	return Piece{Interval: Interval{A: x, B: x}, Cost: Cost{C: math.Inf(1)}}
}

// runningMinLeft computes G(x) = min_{mu <= x} lp(mu) for x across bound's
// domain: a left-to-right sweep that can only ever lower the running
// minimum, producing a monotonically non-increasing piecewise function.
func runningMinLeft(lp ListPiece, bound Bound) ListPiece {
	curVal := math.Inf(1)
	var curTrack Track
	var out []Piece

	for _, p := range lp.Pieces {
		a, b := p.Interval.A, p.Interval.B
		if b <= a {
			continue
		}
		am := clampFloat(p.Cost.Argmin(), a, b)

		if am > a {
			sub := Interval{A: a, B: am}
			var segs []Piece
			if math.IsInf(curVal, 1) {
				segs = []Piece{{Interval: sub, Cost: p.Cost, Track: p.Track}}
			} else {
				segs = envelopeStep(Cost{C: curVal}, curTrack, p.Cost, p.Track, sub)
			}
			out = append(out, segs...)
			if v := p.Cost.Eval(am); v <= curVal {
				curVal, curTrack = v, p.Track
			}
		}
		if b > am {
			sub := Interval{A: am, B: b}
			localVal := p.Cost.Eval(am)
			winVal, winTrack := curVal, curTrack
			if localVal <= curVal {
				winVal, winTrack = localVal, p.Track
				curVal, curTrack = localVal, p.Track
			}
			out = append(out, Piece{Interval: sub, Cost: Cost{C: winVal}, Track: winTrack})
		}
	}
	return ListPiece{Pieces: mergeAdjacent(out)}
}

// reflect negates the mu axis: reflect(lp)(x) = lp(-x). Used to derive the
// right-to-left running minimum from runningMinLeft without re-deriving
// its case analysis mirror-image by hand.
func reflect(lp ListPiece) ListPiece {
	n := len(lp.Pieces)
	out := make([]Piece, n)
	for i, p := range lp.Pieces {
		out[n-1-i] = Piece{
			Interval: Interval{A: -p.Interval.B, B: -p.Interval.A},
			Cost:     Cost{A: p.Cost.A, B: -p.Cost.B, C: p.Cost.C},
			Track:    p.Track,
		}
	}
	return ListPiece{Pieces: out}
}

// runningMinRight computes H(x) = min_{mu >= x} lp(mu).
func runningMinRight(lp ListPiece, bound Bound) ListPiece {
	reflected := reflect(lp)
	reflectedBound := Bound{M: -bound.MM, MM: -bound.M, Constrained: bound.Constrained}
	g := runningMinLeft(reflected, reflectedBound)
	return reflect(g)
}

// shiftListPiece returns f(mu) = lp(mu - delta): lp translated right by
// delta along the mu axis.
func shiftListPiece(lp ListPiece, delta float64) ListPiece {
	out := make([]Piece, len(lp.Pieces))
	for i, p := range lp.Pieces {
		out[i] = Piece{
			Interval: Interval{A: p.Interval.A + delta, B: p.Interval.B + delta},
			Cost:     p.Cost.shift(delta),
			Track:    p.Track,
		}
	}
	return ListPiece{Pieces: out}
}

// decayListPiece returns f(mu) = lp(mu/gamma): the function a point mass at
// mu_old maps to once the state's exponential decay has acted on it.
func decayListPiece(lp ListPiece, gamma float64) ListPiece {
	if gamma == 1 {
		return lp
	}
	out := make([]Piece, len(lp.Pieces))
	for i, p := range lp.Pieces {
		out[i] = Piece{
			Interval: Interval{A: p.Interval.A * gamma, B: p.Interval.B * gamma},
			Cost:     p.Cost.decay(gamma),
			Track:    p.Track,
		}
	}
	return ListPiece{Pieces: out}
}
