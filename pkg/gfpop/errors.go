package gfpop

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Sentinel domain errors. Callers can match against these with errors.Is
// even after they have been combined via multierr.
var (
	ErrEmptyData         = errors.New("gfpop: data sequence is empty")
	ErrInvalidGraph      = errors.New("gfpop: graph failed validation")
	ErrNonPositiveWeight = errors.New("gfpop: observation weight must be positive")
	ErrInvalidBound      = errors.New("gfpop: lower bound must not exceed upper bound")
)

// ValidateInputs checks a Data/Graph/Bound triple before the engine runs,
// accumulating every problem found rather than stopping at the first.
func ValidateInputs(data Data, graph Graph, bound Bound) error {
	var err error
	if len(data) == 0 {
		err = multierr.Append(err, ErrEmptyData)
	}
	for i, pt := range data {
		if pt.W <= 0 {
			err = multierr.Append(err, fmt.Errorf("%w: point %d has weight %g", ErrNonPositiveWeight, i, pt.W))
		}
	}
	if gerr := graph.Validate(); gerr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: %v", ErrInvalidGraph, gerr))
	}
	if bound.Constrained && bound.M > bound.MM {
		err = multierr.Append(err, ErrInvalidBound)
	}
	return err
}
