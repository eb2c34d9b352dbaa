package design

import (
	"fmt"
	"strings"

	"gopower/domain/core"
)

// Metric is the aggregate operating characteristic for one grid point: the
// proportion of non-missing statistics above the decision threshold, or an
// explicitly undefined value when every replicate was missing.
type Metric struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// DefinedMetric wraps a proportion in [0, 1].
func DefinedMetric(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

// UndefinedMetric marks a degenerate batch (all replicates missing).
func UndefinedMetric() Metric {
	return Metric{}
}

// String renders the metric for tabular output.
func (m Metric) String() string {
	if !m.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", m.Value)
}

// EvidenceSummary describes the distribution of the non-missing statistics in
// a batch. Defined is false when the batch had no scored replicates.
type EvidenceSummary struct {
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	Q1      float64 `json:"q1"`
	Q3      float64 `json:"q3"`
	Defined bool    `json:"defined"`
}

// SummaryRow is the permanent output unit: one grid point's coordinates and
// its aggregate metrics, in grid-enumeration order.
type SummaryRow struct {
	Point        GridPoint       `json:"point"`
	Metric       Metric          `json:"metric"`
	Replicates   int             `json:"replicates"`
	MissingCount int             `json:"missing_count"`
	Evidence     EvidenceSummary `json:"evidence"`
}

// ResultTable is the terminal artifact of a sweep: one row per grid point,
// read-only once the sweep completes.
type ResultTable struct {
	Rows []SummaryRow `json:"rows"`
}

// Len returns the row count.
func (t ResultTable) Len() int {
	return len(t.Rows)
}

// Fingerprint computes a deterministic digest of the table contents. Two
// sweeps over the same configuration and seed produce equal fingerprints.
func (t ResultTable) Fingerprint() core.Hash {
	var sb strings.Builder
	for _, r := range t.Rows {
		fmt.Fprintf(&sb, "%g|%g|%t|%.12g|%d|%d\n",
			r.Point.InterceptMean, r.Point.SlopeMean,
			r.Metric.Defined, r.Metric.Value,
			r.Replicates, r.MissingCount)
	}
	return core.NewHash([]byte(sb.String()))
}
