// Package gfpop implements graph-constrained functional pruning optimal
// partitioning for 1-D changepoint detection.
package gfpop

// Point is a single weighted observation in a data sequence.
type Point struct {
	Y float64
	W float64
}

// Data is an ordered sequence of observations, indexed from 1..N in the
// algorithm's own bookkeeping but stored zero-based here.
type Data []Point

// NewData builds a Data sequence from raw values with unit weights.
func NewData(values []float64) Data {
	d := make(Data, len(values))
	for i, v := range values {
		d[i] = Point{Y: v, W: 1}
	}
	return d
}

// NewWeightedData builds a Data sequence from parallel value/weight slices.
// Panics if the slices differ in length.
func NewWeightedData(values, weights []float64) Data {
	if len(values) != len(weights) {
		panic("gfpop: values and weights must have equal length")
	}
	d := make(Data, len(values))
	for i := range values {
		d[i] = Point{Y: values[i], W: weights[i]}
	}
	return d
}

// N reports the number of observations.
func (d Data) N() int {
	return len(d)
}
