// Package bayes provides the built-in model comparator: a BIC-approximation
// Bayes factor for a linear slope model against an intercept-only null. The
// sweep engine treats it as an opaque capability behind ports.ModelComparator
// and can swap in any other statistical backend.
package bayes

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"gopower/domain/design"
	"gopower/ports"
)

// minRows is the smallest dataset a regression comparison can score.
const minRows = 3

// maxLogBF caps the log Bayes factor just below the exp overflow point.
const maxLogBF = 700

// LinearComparator scores datasets with the Schwarz (BIC) approximation:
// BF10 = exp((BIC_null - BIC_full) / 2), where the full model regresses the
// response on the condition level and the null is intercept-only.
type LinearComparator struct{}

// NewLinearComparator creates the comparator.
func NewLinearComparator() *LinearComparator {
	return &LinearComparator{}
}

var _ ports.ModelComparator = (*LinearComparator)(nil)

// Compare returns the evidence statistic for one dataset. Degenerate datasets
// (too few rows, zero variance in the predictor or response, a perfect fit
// with zero residual) yield a missing statistic rather than an error: they
// are a per-replicate outcome the caller counts, not a fault.
func (c *LinearComparator) Compare(ctx context.Context, dataset design.Dataset, pair design.ModelPair) (design.Evidence, error) {
	if err := ctx.Err(); err != nil {
		return design.Evidence{}, err
	}
	if pair != design.PairSlopeVsIntercept {
		return design.Evidence{}, fmt.Errorf("unsupported model pair %q", pair)
	}
	if !dataset.Finite() {
		return design.Evidence{}, fmt.Errorf("dataset contains non-finite responses")
	}

	n := dataset.Len()
	if n < minRows {
		return design.MissingEvidence(), nil
	}

	xs := dataset.Levels()
	ys := dataset.Responses()

	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return design.MissingEvidence(), nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	var rssFull, rssNull float64
	yMean := stat.Mean(ys, nil)
	for i := range ys {
		fullResid := ys[i] - (alpha + beta*xs[i])
		nullResid := ys[i] - yMean
		rssFull += fullResid * fullResid
		rssNull += nullResid * nullResid
	}

	// A zero-residual fit has no likelihood scale to compare against.
	if rssFull <= 0 {
		return design.MissingEvidence(), nil
	}

	fn := float64(n)
	// BIC = n ln(RSS/n) + k ln(n); full model has slope, intercept, and
	// variance parameters, the null drops the slope.
	bicFull := fn*math.Log(rssFull/fn) + 3*math.Log(fn)
	bicNull := fn*math.Log(rssNull/fn) + 2*math.Log(fn)

	logBF := (bicNull - bicFull) / 2
	// Overwhelming evidence overflows exp; clamp so the statistic stays a
	// finite real instead of +Inf.
	if logBF > maxLogBF {
		logBF = maxLogBF
	}
	bf := math.Exp(logBF)
	if math.IsNaN(bf) {
		return design.MissingEvidence(), nil
	}
	return design.NewEvidence(bf), nil
}
