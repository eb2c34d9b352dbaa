package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gopower/domain/design"
	"gopower/internal/testkit"
)

func TestSummarizeProportionAboveThreshold(t *testing.T) {
	metric := Summarize(testkit.Batch(1, 2, 4, 5, 10), 3)

	assert.True(t, metric.Defined)
	assert.Equal(t, 0.4, metric.Value)
}

func TestSummarizeThresholdIsStrict(t *testing.T) {
	// A statistic exactly at the threshold does not count as exceeding it.
	metric := Summarize(testkit.Batch(3, 4), 3)

	assert.True(t, metric.Defined)
	assert.Equal(t, 0.5, metric.Value)
}

func TestSummarizeExcludesMissingFromDenominator(t *testing.T) {
	batch := testkit.Batch(1, 2, 4, 5, 10)
	batch.Stats = append(batch.Stats, testkit.MissingBatch(5).Stats...)

	metric := Summarize(batch, 3)

	assert.True(t, metric.Defined)
	assert.Equal(t, 0.4, metric.Value, "missing replicates must not count against power")
}

func TestSummarizeAllMissingIsUndefined(t *testing.T) {
	metric := Summarize(testkit.MissingBatch(5), 3)

	assert.False(t, metric.Defined, "an all-missing batch must be reported as undefined, not zero")
	assert.Equal(t, "undefined", metric.String())
}

func TestSummarizeBounds(t *testing.T) {
	none := Summarize(testkit.Batch(0.1, 0.2, 0.5), 3)
	assert.Equal(t, 0.0, none.Value)

	all := Summarize(testkit.Batch(10, 20, 30), 3)
	assert.Equal(t, 1.0, all.Value)
}

func TestDescribe(t *testing.T) {
	summary := Describe(testkit.Batch(1, 2, 3, 4, 5))

	assert.True(t, summary.Defined)
	assert.Equal(t, 3.0, summary.Mean)
	assert.Equal(t, 3.0, summary.Median)
	assert.LessOrEqual(t, summary.Q1, summary.Median)
	assert.LessOrEqual(t, summary.Median, summary.Q3)
}

func TestDescribeAllMissing(t *testing.T) {
	summary := Describe(testkit.MissingBatch(3))
	assert.False(t, summary.Defined)
}

func TestRow(t *testing.T) {
	point := design.GridPoint{InterceptMean: 1, SlopeMean: 0.5}
	batch := testkit.Batch(1, 2, 4, 5, 10)
	batch.Stats = append(batch.Stats, design.MissingEvidence())

	row := Row(point, batch, 3)

	assert.Equal(t, point, row.Point)
	assert.Equal(t, 6, row.Replicates)
	assert.Equal(t, 1, row.MissingCount)
	assert.Equal(t, 0.4, row.Metric.Value)
	assert.True(t, row.Evidence.Defined)
}
