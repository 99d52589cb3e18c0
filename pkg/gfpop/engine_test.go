package gfpop

import "testing"

func TestEngineStdRecoversObviousChangepoint(t *testing.T) {
	values := []float64{0, 0, 0, 0, 10, 10, 10, 10}
	data := NewData(values)
	g := stdSelfLoopGraph(2)
	e, err := New(g, UnconstrainedBound(), L2Params())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(data)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.NSegments() != 2 {
		t.Fatalf("got %d segments, want 2: %+v", res.NSegments(), res)
	}
	if res.Changepoints[0] != 4 || res.Changepoints[1] != 8 {
		t.Fatalf("changepoints = %v, want [4 8]", res.Changepoints)
	}
	if !approxEqual(res.Parameters[0], 0, 1e-6) || !approxEqual(res.Parameters[1], 10, 1e-6) {
		t.Fatalf("parameters = %v, want [0 10]", res.Parameters)
	}
}

func TestEngineStdWithHighPenaltyMergesIntoOneSegment(t *testing.T) {
	values := []float64{0, 0.1, -0.1, 0.2, -0.2}
	data := NewData(values)
	g := stdSelfLoopGraph(1000)
	e, err := New(g, UnconstrainedBound(), L2Params())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(data)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.NSegments() != 1 {
		t.Fatalf("got %d segments with a prohibitive penalty, want 1: %+v", res.NSegments(), res)
	}
}

func TestEngineIsotonicEnforcesNonDecreasingMeans(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	data := NewData(values)
	g := upSelfLoopGraph(0, 0)
	e, err := New(g, UnconstrainedBound(), L2Params())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(data)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 1; i < len(res.Parameters); i++ {
		if res.Parameters[i] < res.Parameters[i-1]-1e-9 {
			t.Fatalf("isotonic result not non-decreasing: %v", res.Parameters)
		}
	}
	if res.Changepoints[len(res.Changepoints)-1] != len(values) {
		t.Fatalf("last changepoint should equal N, got %v", res.Changepoints)
	}
}

func TestEngineIsotonicMatchesPAVA(t *testing.T) {
	values := []float64{5, 3, 4, 1, 7}
	data := NewData(values)
	g := upSelfLoopGraph(0, 0)
	e, err := New(g, UnconstrainedBound(), L2Params())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(data)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	pava := PAVA(data)
	if !approxEqual(res.GlobalCost, pava.GlobalCost, 1e-6) {
		t.Fatalf("isotonic driver cost %v should match direct PAVA cost %v", res.GlobalCost, pava.GlobalCost)
	}
}

func TestEngineUpDownGraphEnforcesAlternatingPattern(t *testing.T) {
	// Two states: state 0 only reachable via Up edges, state 1 only via Down,
	// each charging a penalty, forcing the recovered path to alternate.
	g := Graph{
		NStates: 2,
		Edges: []Edge{
			{From: 0, To: 1, Kind: KindDown, Penalty: 0.5, Jump: 1, Decay: 1},
			{From: 1, To: 0, Kind: KindUp, Penalty: 0.5, Jump: 1, Decay: 1},
		},
		StartStates: []int{0},
	}
	data := NewData([]float64{0, 0, 10, 10, 0, 0, 10, 10})
	e, err := New(g, UnconstrainedBound(), L2Params())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(data)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Changepoints) == 0 {
		t.Fatal("expected at least one segment")
	}
	for i := 1; i < len(res.States); i++ {
		if res.States[i] == res.States[i-1] {
			t.Fatalf("segments %d and %d share state %d; want alternating states: %v", i-1, i, res.States[i], res.States)
		}
	}
}

func TestEngineBoundClampsForcedSegments(t *testing.T) {
	values := []float64{100, 100, 100, -100, -100, -100}
	data := NewData(values)
	g := stdSelfLoopGraph(1)
	bound := NewBound(-10, 10)
	e, err := New(g, bound, L2Params())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := e.Run(data)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, p := range res.Parameters {
		if p < bound.M-1e-9 || p > bound.MM+1e-9 {
			t.Fatalf("segment %d parameter %v escaped bound [%v,%v]", i, p, bound.M, bound.MM)
		}
		if !res.Forced[i] {
			t.Fatalf("segment %d should have been reported as Forced given the bound", i)
		}
	}
}

func TestEngineRejectsEmptyData(t *testing.T) {
	g := stdSelfLoopGraph(1)
	e, err := New(g, UnconstrainedBound(), L2Params())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := e.Run(Data{}); err == nil {
		t.Fatal("expected an error for empty data")
	}
}

func TestEngineRejectsNonPositiveWeight(t *testing.T) {
	g := stdSelfLoopGraph(1)
	e, err := New(g, UnconstrainedBound(), L2Params())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data := Data{{Y: 1, W: 0}, {Y: 2, W: 1}}
	if _, err := e.Run(data); err == nil {
		t.Fatal("expected an error for a non-positive weight")
	}
}
