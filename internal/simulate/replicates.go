package simulate

import (
	"context"

	"gopower/domain/design"
	"gopower/internal"
	apperrors "gopower/internal/errors"
	"gopower/ports"
)

// ReplicateRunner runs the configured number of independent replicates for
// one grid point: simulate, compare, collect. Each replicate owns a fresh
// random substream and a fresh dataset; only scalars survive the iteration.
type ReplicateRunner struct {
	simulator  *Simulator
	comparator ports.ModelComparator
	rngPort    ports.RNGPort
	logger     *internal.Logger
}

// NewReplicateRunner creates a replicate runner.
func NewReplicateRunner(comparator ports.ModelComparator, rngPort ports.RNGPort) *ReplicateRunner {
	return &ReplicateRunner{
		simulator:  NewSimulator(),
		comparator: comparator,
		rngPort:    rngPort,
		logger:     internal.NewComponentLogger("ReplicateRunner"),
	}
}

// Run collects the evidence batch for one grid point. The returned batch
// always has exactly `replicates` entries: a comparator fault or a degenerate
// dataset is recorded as a missing statistic, never retried, never dropped,
// and never fatal for the batch. Only infrastructure failures (an exhausted
// context, a broken design) abort the run.
func (r *ReplicateRunner) Run(ctx context.Context, spec design.DesignSpec, point design.GridPoint, replicates int, baseSeed int64) (design.Batch, error) {
	if replicates <= 0 {
		return design.Batch{}, apperrors.InvalidInput("replicate count must be positive")
	}

	stats := make([]design.Evidence, replicates)
	for i := 0; i < replicates; i++ {
		stream, err := r.rngPort.ReplicateStream(ctx, point.Key(), i, baseSeed)
		if err != nil {
			return design.Batch{}, apperrors.Wrapf(err, "replicate %d at %s: stream derivation failed", i, point.Key())
		}

		dataset, err := r.simulator.Simulate(spec, point, stream)
		if err != nil {
			return design.Batch{}, apperrors.Wrapf(err, "replicate %d at %s: simulation failed", i, point.Key())
		}

		evidence, err := r.comparator.Compare(ctx, dataset, spec.Pair)
		if err != nil {
			r.logger.Warn("replicate %d at %s: comparator fault recorded as missing: %v", i, point.Key(), err)
			stats[i] = design.MissingEvidence()
			continue
		}
		stats[i] = evidence
	}
	return design.Batch{Stats: stats}, nil
}
