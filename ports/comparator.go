package ports

import (
	"context"

	"gopower/domain/design"
)

// ModelComparator maps one simulated dataset to a scalar evidence statistic
// for the requested full/null model pair. The engine treats it as an opaque
// external capability: it may legitimately return a missing statistic for a
// degenerate dataset (zero predictor variance, too few rows), and an error
// from it is fatal for that single replicate only, never for the sweep.
type ModelComparator interface {
	Compare(ctx context.Context, dataset design.Dataset, pair design.ModelPair) (design.Evidence, error)
}
