package server

import "github.com/gfpop-go/gfpop/pkg/gfpop"

// JobRequest is the POST /jobs request body: a complete, self-contained
// segmentation job.
type JobRequest struct {
	Values  []float64   `json:"values"`
	Weights []float64   `json:"weights,omitempty"`
	Graph   gfpop.Graph `json:"graph"`
	Bound   *BoundSpec  `json:"bound,omitempty"`
	Robust  *RobustSpec `json:"robust,omitempty"`
}

// BoundSpec is the wire form of a gfpop.Bound.
type BoundSpec struct {
	M  float64 `json:"m"`
	MM float64 `json:"mm"`
}

// RobustSpec is the wire form of gfpop.RobustParams.
type RobustSpec struct {
	Kind string  `json:"kind"` // "l2", "huber", or "biweight"
	K    float64 `json:"k,omitempty"`
}

// JobResponse is the POST /jobs and GET /jobs/{id} response body.
type JobResponse struct {
	ID     string       `json:"id"`
	Result gfpop.Result `json:"result"`
}

func (s *RobustSpec) toParams() gfpop.RobustParams {
	if s == nil {
		return gfpop.L2Params()
	}
	switch s.Kind {
	case "huber":
		return gfpop.RobustParams{Kind: gfpop.Huber, K: s.K}
	case "biweight":
		return gfpop.RobustParams{Kind: gfpop.Biweight, K: s.K}
	default:
		return gfpop.L2Params()
	}
}

func (s *BoundSpec) toBound() gfpop.Bound {
	if s == nil {
		return gfpop.UnconstrainedBound()
	}
	return gfpop.NewBound(s.M, s.MM)
}
