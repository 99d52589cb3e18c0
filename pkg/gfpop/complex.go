package gfpop

import "math"

// fpopComplex runs the general graph-constrained dynamic program. It keeps
// one ListPiece per (time, state) pair; at every step each state's new
// function is the pointwise minimum of its own previous function (a
// cost-free continuation, always available regardless of which edges the
// graph declares) and whatever every edge into that state contributes.
func fpopComplex(data Data, graph Graph, bound Bound, robust RobustParams) (Result, error) {
	n := len(data)
	rows := make([][]ListPiece, n)
	rows[0] = make([]ListPiece, graph.NStates)

	starts := stateSet(graph.StartStates)
	base := newFlatListPiece(bound, ZeroCost()).AddPoint(data[0], robust)
	for s := 0; s < graph.NStates; s++ {
		if len(starts) == 0 || starts[s] {
			rows[0][s] = base.retag(0, s, s)
		} else {
			rows[0][s] = infListPiece(bound)
		}
	}

	for t := 1; t < n; t++ {
		rows[t] = make([]ListPiece, graph.NStates)
		for s := 0; s < graph.NStates; s++ {
			combined := rows[t-1][s]
			for _, e := range graph.edgesInto(s) {
				combined = minFunction(combined, applyEdge(rows[t-1][e.From], bound, e, t))
			}
			rows[t][s] = combined.AddPoint(data[t], robust)
		}
	}

	return backtrackComplex(data, graph, bound, rows)
}

func stateSet(states []int) map[int]bool {
	if len(states) == 0 {
		return nil
	}
	m := make(map[int]bool, len(states))
	for _, s := range states {
		m[s] = true
	}
	return m
}

// backtrackComplex walks the recovered Track chain backward from the best
// end state at the last time step, applying the decay correction and the
// bound clamp at every recovered changepoint, then reverses the result
// into forward (increasing position) order.
func backtrackComplex(data Data, graph Graph, bound Bound, rows [][]ListPiece) (Result, error) {
	n := len(data)
	last := rows[n-1]

	candidates := graph.EndStates
	if len(candidates) == 0 {
		candidates = make([]int, graph.NStates)
		for i := range candidates {
			candidates[i] = i
		}
	}

	bestState := candidates[0]
	bestVal, bestArgmin, bestWinner := last[candidates[0]].GlobalMin()
	for _, s := range candidates[1:] {
		v, a, w := last[s].GlobalMin()
		if v < bestVal {
			bestVal, bestArgmin, bestWinner, bestState = v, a, w, s
		}
	}
	if math.IsInf(bestVal, 1) {
		// No end state is reachable under this graph: a feasibility
		// condition, not a domain error, so it degrades to an infinite-cost
		// empty segmentation rather than a returned error.
		return Result{GlobalCost: math.Inf(1), N: n}, nil
	}

	var changepoints []int
	var parameters []float64
	var states []int
	var forced []bool

	currentState := bestState
	currentChgpt := n
	winner := bestWinner
	argmin := bestArgmin

	for {
		value := argmin
		if decay := graph.stateDecay(currentState); decay != 1 {
			steps := float64(currentChgpt - winner.Track.Label)
			value = argmin * math.Pow(decay, steps)
		}
		clamped, isForced := bound.Clamp(value)
		// The argmin is already clipped to the piece's interval, so also
		// report a segment as forced when it sits on a bound edge that its
		// own quadratic's optimum lies beyond.
		if a := winner.Cost.Argmin(); winner.Cost.A > 0 && ((argmin <= bound.M && a < bound.M) || (argmin >= bound.MM && a > bound.MM)) {
			isForced = true
		}

		changepoints = append(changepoints, currentChgpt)
		parameters = append(parameters, clamped)
		states = append(states, currentState)
		forced = append(forced, isForced)

		label := winner.Track.Label
		if label == 0 {
			break
		}
		parentState := winner.Track.ParentState
		edge := findEdge(graph, parentState, currentState)

		currentChgpt = label
		currentState = parentState
		v2, a2, w2 := restrictedMinForEdge(rows[label-1][parentState], edge, clamped, bound)
		if math.IsInf(v2, 1) {
			v2, a2, w2 = rows[label-1][parentState].GlobalMin()
		}
		_ = v2
		winner, argmin = w2, a2
	}

	res := Result{
		Changepoints: changepoints,
		Parameters:   parameters,
		States:       states,
		Forced:       forced,
		N:            n,
		GlobalCost:   bestVal,
	}
	reverseResult(&res)
	return res, nil
}
