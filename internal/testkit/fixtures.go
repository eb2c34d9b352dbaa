package testkit

import (
	"gopower/domain/design"
)

// SmallDesign returns a compact hierarchical design for fast tests.
func SmallDesign() design.DesignSpec {
	return design.DesignSpec{
		Participants: 8,
		Levels:       []float64{0, 1, 2, 3},
		Mode:         design.ModeHierarchical,
		Pair:         design.PairSlopeVsIntercept,
	}
}

// SmallGrid returns a 2x2 grid with modest spreads.
func SmallGrid() design.Grid {
	return design.Grid{
		InterceptMeans: design.GridAxis{Label: "intercept_mean", Values: []float64{0, 1}},
		SlopeMeans:     design.GridAxis{Label: "slope_mean", Values: []float64{0, 0.5}},
		InterceptSD:    1,
		SlopeSD:        0.5,
		NoiseSD:        1,
	}
}

// Batch builds an evidence batch from plain values; use NaN-free values only.
func Batch(values ...float64) design.Batch {
	stats := make([]design.Evidence, len(values))
	for i, v := range values {
		stats[i] = design.NewEvidence(v)
	}
	return design.Batch{Stats: stats}
}

// MissingBatch builds a batch in which every replicate is missing.
func MissingBatch(n int) design.Batch {
	stats := make([]design.Evidence, n)
	for i := range stats {
		stats[i] = design.MissingEvidence()
	}
	return design.Batch{Stats: stats}
}
