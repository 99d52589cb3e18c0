package gfpop

// Engine binds a Graph, a Bound and a robust-loss choice into a reusable
// segmenter. Construct one with New and call Run once per data sequence;
// an Engine carries no mutable state between calls.
type Engine struct {
	Graph  Graph
	Bound  Bound
	Robust RobustParams
}

// New validates graph and bound and returns a ready-to-use Engine.
func New(graph Graph, bound Bound, robust RobustParams) (*Engine, error) {
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	if bound.Constrained && bound.M > bound.MM {
		return nil, ErrInvalidBound
	}
	return &Engine{Graph: graph, Bound: bound, Robust: robust}, nil
}

// Run segments data under the Engine's graph, bound and robust loss,
// routing to whichever of the three dynamic-program drivers the graph's
// shape specializes: the isotonic driver for a lone Up self-loop, the std
// driver for a lone Std self-loop, and the general complex driver
// otherwise.
func (e *Engine) Run(data Data) (Result, error) {
	if err := ValidateInputs(data, e.Graph, e.Bound); err != nil {
		return Result{}, err
	}
	switch {
	case e.Graph.IsIsotonic():
		return fpopIsotonic(data, e.Graph.Edges[0], e.Bound, e.Robust)
	case e.Graph.IsSingleStd():
		return fpopStd(data, e.Graph.Edges[0], e.Bound, e.Robust)
	default:
		return fpopComplex(data, e.Graph, e.Bound, e.Robust)
	}
}
