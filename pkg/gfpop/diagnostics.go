package gfpop

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Diagnostics summarizes how well a recovered segmentation fits the data
// it was computed from, for reporting alongside a Result rather than for
// use inside the dynamic program itself.
type Diagnostics struct {
	AIC         float64
	BIC         float64
	RSquared    float64
	Residuals   []float64
	NParameters int
}

// Evaluate computes fit diagnostics for res against the data it segmented.
// The effective parameter count is one mean per segment; AIC/BIC follow
// the usual Gaussian-likelihood approximation from the residual sum of
// squares.
func Evaluate(data Data, res Result) Diagnostics {
	n := len(data)
	fitted := make([]float64, n)
	residuals := make([]float64, n)
	observed := make([]float64, n)
	weights := make([]float64, n)

	start := 0
	for i, end := range res.Changepoints {
		mean := res.Parameters[i]
		for j := start; j < end; j++ {
			fitted[j] = mean
			residuals[j] = data[j].Y - mean
			observed[j] = data[j].Y
			weights[j] = data[j].W
		}
		start = end
	}

	rss := 0.0
	for i, r := range residuals {
		rss += weights[i] * r * r
	}

	k := float64(len(res.Changepoints))
	nf := float64(n)
	var aic, bic float64
	if rss > 0 {
		logLike := -0.5 * nf * math.Log(rss/nf)
		aic = 2*k - 2*logLike
		bic = k*math.Log(nf) - 2*logLike
	}

	r2 := stat.RSquared(fitted, observed, weights, 0, 1)

	return Diagnostics{
		AIC:         aic,
		BIC:         bic,
		RSquared:    r2,
		Residuals:   residuals,
		NParameters: int(k),
	}
}
