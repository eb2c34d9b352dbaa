package design

// Evidence is one model-comparison statistic for one simulated dataset: a
// non-negative real, or an explicit missing marker when the comparator could
// not score a degenerate dataset. Missing is a counted outcome, never an
// error and never coerced to zero.
type Evidence struct {
	Value   float64 `json:"value"`
	Missing bool    `json:"missing"`
}

// NewEvidence wraps a defined statistic.
func NewEvidence(v float64) Evidence {
	return Evidence{Value: v}
}

// MissingEvidence marks a replicate whose statistic is undefined.
func MissingEvidence() Evidence {
	return Evidence{Missing: true}
}

// Batch is the ordered sequence of evidence statistics for all replicates of
// one grid point. Its length always equals the configured replicate count;
// missing values are present-but-missing, not dropped.
type Batch struct {
	Stats []Evidence `json:"stats"`
}

// Len returns the replicate count, missing entries included.
func (b Batch) Len() int {
	return len(b.Stats)
}

// Defined returns the non-missing statistics in replicate order.
func (b Batch) Defined() []float64 {
	vals := make([]float64, 0, len(b.Stats))
	for _, e := range b.Stats {
		if !e.Missing {
			vals = append(vals, e.Value)
		}
	}
	return vals
}

// MissingCount returns how many replicates produced no statistic.
func (b Batch) MissingCount() int {
	n := 0
	for _, e := range b.Stats {
		if e.Missing {
			n++
		}
	}
	return n
}
