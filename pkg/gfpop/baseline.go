package gfpop

import (
	"math"
	"sort"
)

// rbfCost is a nonparametric, kernel-based segment cost: the cost of a
// segment is low when its points are mutually similar under a Gaussian
// (RBF) kernel and high otherwise. Unlike Cost, it carries no closed-form
// sufficient statistics and must be evaluated from the full Gram matrix of
// the fitted signal.
type rbfCost struct {
	signal []float64
	gram   [][]float64
	gamma  float64
}

func newRBFCost(signal []float64) *rbfCost {
	r := &rbfCost{signal: smoothOutliers(signal, 5)}
	r.gamma = r.medianGamma()
	n := len(r.signal)
	r.gram = make([][]float64, n)
	for i := 0; i < n; i++ {
		r.gram[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			diff := r.signal[i] - r.signal[j]
			r.gram[i][j] = math.Exp(-r.gamma * diff * diff)
		}
	}
	return r
}

// medianGamma picks the kernel bandwidth by the median-distance heuristic:
// gamma is the reciprocal of the median pairwise squared distance.
func (r *rbfCost) medianGamma() float64 {
	n := len(r.signal)
	if n < 2 {
		return 1
	}
	distances := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			diff := r.signal[i] - r.signal[j]
			if d := diff * diff; d > 0 {
				distances = append(distances, d)
			}
		}
	}
	if len(distances) == 0 {
		return 1
	}
	sort.Float64s(distances)
	median := distances[len(distances)/2]
	if median == 0 {
		return 1
	}
	return 1 / median
}

// segmentCost is diagSum - totalSum/length over [start,end): the kernel
// self-similarity the segment would have if every point were on the
// diagonal, minus what it actually has.
func (r *rbfCost) segmentCost(start, end int) float64 {
	if start >= end || start < 0 || end > len(r.signal) {
		return math.Inf(1)
	}
	length := float64(end - start)
	var diagSum, totalSum float64
	for i := start; i < end; i++ {
		for j := start; j < end; j++ {
			v := r.gram[i][j]
			totalSum += v
			if i == j {
				diagSum += v
			}
		}
	}
	return diagSum - totalSum/length
}

// smoothOutliers runs a zero-padded median filter over signal before the
// Gram matrix is built, so a handful of spiky observations don't dominate
// the bandwidth estimate. kernelSize must be a positive odd integer.
func smoothOutliers(signal []float64, kernelSize int) []float64 {
	n := len(signal)
	if n == 0 || kernelSize < 3 {
		return signal
	}
	half := kernelSize / 2
	out := make([]float64, n)
	window := make([]float64, kernelSize)
	for i := 0; i < n; i++ {
		for j := -half; j <= half; j++ {
			idx := i + j
			if idx < 0 || idx >= n {
				window[j+half] = 0
			} else {
				window[j+half] = signal[idx]
			}
		}
		sorted := append([]float64(nil), window...)
		sort.Float64s(sorted)
		out[i] = sorted[half]
	}
	return out
}

// Baseline runs a PELT-style pruned search over a kernel-based cost rather
// than the graph-constrained quadratic cost the rest of the package uses.
// It ignores Graph entirely and returns unconstrained changepoints, giving
// callers (notably cmd/gfpop-diagnose) an independent cross-check: a large
// disagreement between Baseline and an Engine's Run output on the same data
// usually means the graph shape or penalty is fighting the data rather than
// describing it. minSize is the shortest admissible segment and jump is the
// candidate-changepoint stride; both trade accuracy for speed. The
// graph-constrained search has no counterpart to either.
func Baseline(data Data, penalty float64, minSize, jump int) []int {
	n := len(data)
	if n == 0 {
		return nil
	}
	if minSize < 1 {
		minSize = 1
	}
	if jump < 1 {
		jump = 1
	}

	signal := make([]float64, n)
	for i, pt := range data {
		signal[i] = pt.Y
	}
	cost := newRBFCost(signal)

	type segKey struct{ start, end int }
	partitions := map[int]map[segKey]float64{0: {}}
	admissible := []int{}

	candidates := []int{}
	for k := 0; k < n; k += jump {
		if k >= minSize {
			candidates = append(candidates, k)
		}
	}
	candidates = append(candidates, n)

	for _, bkp := range candidates {
		admissible = append(admissible, int(math.Floor(float64(bkp-minSize)/float64(jump)))*jump)

		type candidate struct {
			start     int
			partition map[segKey]float64
			total     float64
		}
		var best *candidate
		var all []candidate

		for _, t := range admissible {
			left, ok := partitions[t]
			if !ok {
				continue
			}
			merged := make(map[segKey]float64, len(left)+1)
			var total float64
			for k, v := range left {
				merged[k] = v
				total += v
			}
			merged[segKey{t, bkp}] = cost.segmentCost(t, bkp) + penalty
			total += merged[segKey{t, bkp}]

			c := candidate{start: t, partition: merged, total: total}
			all = append(all, c)
			if best == nil || c.total < best.total {
				best = &all[len(all)-1]
			}
		}
		if best == nil {
			continue
		}
		partitions[bkp] = best.partition

		pruned := admissible[:0]
		for _, c := range all {
			if c.total <= best.total+penalty {
				pruned = append(pruned, c.start)
			}
		}
		admissible = pruned
	}

	final, ok := partitions[n]
	if !ok {
		return []int{n}
	}
	delete(final, segKey{0, 0})
	bkps := make([]int, 0, len(final))
	for seg := range final {
		bkps = append(bkps, seg.end)
	}
	sort.Ints(bkps)
	return bkps
}
