package gfpop

import "testing"

func stdSelfLoopGraph(beta float64) Graph {
	return Graph{
		NStates: 1,
		Edges:   []Edge{{From: 0, To: 0, Kind: KindStd, Penalty: beta, Decay: 1}},
	}
}

func upSelfLoopGraph(beta, jump float64) Graph {
	return Graph{
		NStates: 1,
		Edges:   []Edge{{From: 0, To: 0, Kind: KindUp, Penalty: beta, Jump: jump, Decay: 1}},
	}
}

func TestGraphValidateRejectsOutOfRangeState(t *testing.T) {
	g := Graph{NStates: 1, Edges: []Edge{{From: 0, To: 2, Kind: KindStd}}}
	if err := g.Validate(); err == nil {
		t.Fatal("expected validation error for out-of-range edge target")
	}
}

func TestGraphValidateRejectsNegativeJump(t *testing.T) {
	g := Graph{NStates: 1, Edges: []Edge{{From: 0, To: 0, Kind: KindUp, Jump: -1}}}
	if err := g.Validate(); err == nil {
		t.Fatal("expected validation error for negative jump on an Up edge")
	}
}

func TestGraphValidateRejectsEmptyEdgeSet(t *testing.T) {
	g := Graph{NStates: 1}
	if err := g.Validate(); err == nil {
		t.Fatal("expected validation error for a graph with no edges")
	}
}

func TestIsSingleStdAndIsIsotonicClassification(t *testing.T) {
	if !stdSelfLoopGraph(1).IsSingleStd() {
		t.Fatal("single Std self-loop graph should classify as IsSingleStd")
	}
	if stdSelfLoopGraph(1).IsIsotonic() {
		t.Fatal("Std self-loop graph should not classify as isotonic")
	}
	if !upSelfLoopGraph(1, 0).IsIsotonic() {
		t.Fatal("single Up self-loop graph should classify as isotonic")
	}
}

func TestEdgeGeometryStdCollapsesToGlobalMinimum(t *testing.T) {
	bound := UnconstrainedBound()
	lp := ListPiece{Pieces: []Piece{
		{Interval: NewInterval(bound.M, 0), Cost: Cost{A: 1, B: 0, C: 2}, Track: Track{Label: 0, State: 0}},  // mu^2+2, min 2 at 0
		{Interval: NewInterval(0, bound.MM), Cost: Cost{A: 1, B: -2, C: 1}, Track: Track{Label: 0, State: 0}}, // (mu-1)^2, min 0 at 1
	}}
	geo := edgeGeometry(lp, bound, KindStd, 0, 1)
	if !approxEqual(geo.Eval(-50), 0, 1e-6) || !approxEqual(geo.Eval(50), 0, 1e-6) {
		t.Fatalf("Std edge geometry should be flat at the source's global minimum everywhere, got %v and %v", geo.Eval(-50), geo.Eval(50))
	}
}

func TestEdgeGeometryUpEnforcesMinimumIncrease(t *testing.T) {
	bound := NewBound(-20, 20)
	lp := newFlatListPiece(bound, Cost{A: 1, B: 0, C: 0}).retag(0, 0, 0) // mu^2, argmin 0
	geo := edgeGeometry(lp, bound, KindUp, 5, 1)
	// child mean must be >= parent optimum (0) + jump (5); cost below 5 should be strictly worse than at 0.
	if geo.Eval(5) > geo.Eval(10) {
		t.Fatalf("expected cost to not improve past the running minimum once jump is enforced")
	}
	if !approxEqual(geo.Eval(5), 0, 1e-6) {
		t.Fatalf("geo.Eval(5) = %v, want 0 (parent's minimum achievable exactly at child=5)", geo.Eval(5))
	}
}

func TestFindEdgeReturnsDeclaredEdge(t *testing.T) {
	g := Graph{NStates: 2, Edges: []Edge{{From: 0, To: 1, Kind: KindUp, Jump: 3}}}
	e := findEdge(g, 0, 1)
	if e.Kind != KindUp || e.Jump != 3 {
		t.Fatalf("findEdge returned %+v, want the declared Up edge", e)
	}
}
