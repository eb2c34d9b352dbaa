package testkit

import (
	"context"
	"sync"

	"gopower/domain/design"
	"gopower/ports"
)

// FixedComparator returns the same evidence statistic for every dataset.
type FixedComparator struct {
	Value float64
}

var _ ports.ModelComparator = (*FixedComparator)(nil)

func (c *FixedComparator) Compare(ctx context.Context, dataset design.Dataset, pair design.ModelPair) (design.Evidence, error) {
	return design.NewEvidence(c.Value), nil
}

// ScriptedComparator replays a fixed evidence sequence, cycling when
// exhausted. Safe for concurrent use.
type ScriptedComparator struct {
	Sequence []design.Evidence

	mu   sync.Mutex
	next int
}

var _ ports.ModelComparator = (*ScriptedComparator)(nil)

func (c *ScriptedComparator) Compare(ctx context.Context, dataset design.Dataset, pair design.ModelPair) (design.Evidence, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.Sequence[c.next%len(c.Sequence)]
	c.next++
	return e, nil
}

// FaultyComparator fails every call with Err, standing in for an external
// comparator that raises rather than returning missing.
type FaultyComparator struct {
	Err error
}

var _ ports.ModelComparator = (*FaultyComparator)(nil)

func (c *FaultyComparator) Compare(ctx context.Context, dataset design.Dataset, pair design.ModelPair) (design.Evidence, error) {
	return design.Evidence{}, c.Err
}

// DatasetRecorder wraps a comparator and counts datasets scored, recording
// the row count of each. Used to assert replicate independence.
type DatasetRecorder struct {
	Inner ports.ModelComparator

	mu       sync.Mutex
	RowSizes []int
}

var _ ports.ModelComparator = (*DatasetRecorder)(nil)

func (c *DatasetRecorder) Compare(ctx context.Context, dataset design.Dataset, pair design.ModelPair) (design.Evidence, error) {
	c.mu.Lock()
	c.RowSizes = append(c.RowSizes, dataset.Len())
	c.mu.Unlock()
	return c.Inner.Compare(ctx, dataset, pair)
}
