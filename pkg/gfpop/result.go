package gfpop

// Result is a recovered segmentation: parallel slices in forward (increasing
// position) order, as opposed to the backward, most-recent-first order the
// backtracking pass naturally builds them in.
type Result struct {
	// Changepoints holds the 1-based end index of each segment, with
	// Changepoints[len-1] == N.
	Changepoints []int
	// Parameters holds each segment's recovered mean, one per entry in
	// Changepoints.
	Parameters []float64
	// States holds the graph state each segment was assigned to.
	States []int
	// Forced marks segments whose recovered mean was clamped against the
	// Bound rather than landing there as the true unconstrained optimum.
	Forced []bool
	// N is the number of observations segmented.
	N int
	// GlobalCost is the total penalized cost of the optimal segmentation.
	GlobalCost float64
}

// NSegments returns the number of segments in the recovered path.
func (r Result) NSegments() int {
	return len(r.Changepoints)
}

// reverseResult reverses the four parallel slices in place, turning the
// backward (most-recent-first) order every driver's backtracking pass
// builds into the forward order this package exposes publicly.
func reverseResult(r *Result) {
	n := len(r.Changepoints)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		r.Changepoints[i], r.Changepoints[j] = r.Changepoints[j], r.Changepoints[i]
		r.Parameters[i], r.Parameters[j] = r.Parameters[j], r.Parameters[i]
		r.States[i], r.States[j] = r.States[j], r.States[i]
		r.Forced[i], r.Forced[j] = r.Forced[j], r.Forced[i]
	}
}
