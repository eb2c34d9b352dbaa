// Package aggregate reduces a replicate batch into the summary metrics of one
// result-table row.
package aggregate

import (
	"github.com/montanaflynn/stats"

	"gopower/domain/design"
)

// Summarize computes the aggregate operating characteristic for one grid
// point: the proportion of non-missing statistics strictly greater than the
// threshold, over the count of non-missing statistics. Missing values are
// excluded from the denominator; a batch with no scored replicates yields an
// explicitly undefined metric, never zero.
func Summarize(batch design.Batch, threshold float64) design.Metric {
	defined := batch.Defined()
	if len(defined) == 0 {
		return design.UndefinedMetric()
	}
	hits := 0
	for _, v := range defined {
		if v > threshold {
			hits++
		}
	}
	return design.DefinedMetric(float64(hits) / float64(len(defined)))
}

// Describe computes the distribution summary of the non-missing statistics.
func Describe(batch design.Batch) design.EvidenceSummary {
	defined := batch.Defined()
	if len(defined) == 0 {
		return design.EvidenceSummary{}
	}

	mean, _ := stats.Mean(defined)
	median, _ := stats.Median(defined)

	summary := design.EvidenceSummary{
		Mean:    mean,
		Median:  median,
		Q1:      median,
		Q3:      median,
		Defined: true,
	}
	// Quartiles need enough points to split; fall back to the median for tiny batches.
	if q, err := stats.Quartile(defined); err == nil {
		summary.Q1 = q.Q1
		summary.Q3 = q.Q3
	}
	return summary
}

// Row assembles the full summary row for one grid point.
func Row(point design.GridPoint, batch design.Batch, threshold float64) design.SummaryRow {
	return design.SummaryRow{
		Point:        point,
		Metric:       Summarize(batch, threshold),
		Replicates:   batch.Len(),
		MissingCount: batch.MissingCount(),
		Evidence:     Describe(batch),
	}
}
