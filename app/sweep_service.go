package app

import (
	"context"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"gopower/domain/core"
	"gopower/domain/design"
	"gopower/internal"
	"gopower/internal/aggregate"
	apperrors "gopower/internal/errors"
	"gopower/internal/simulate"
	"gopower/ports"
)

// SweepService runs deterministic Monte Carlo grid sweeps: it enumerates the
// parameter grid, runs a replicate batch per grid point, aggregates each
// batch into a summary row, and assembles the result table with its manifest
// and fingerprint.
type SweepService struct {
	runner     *simulate.ReplicateRunner
	repository ports.SweepRepository
	workers    int64
	logger     *internal.Logger
}

// SweepRequest defines the inputs for one deterministic sweep.
type SweepRequest struct {
	Design     design.DesignSpec `json:"design"`
	Grid       design.Grid       `json:"grid"`
	Replicates int               `json:"replicates"`
	Threshold  float64           `json:"threshold"`
	Seed       int64             `json:"seed"`
	SweepID    core.SweepID      `json:"sweep_id,omitempty"` // optional, generated if empty
}

// Validate fails fast on configuration errors before any simulation begins.
func (r SweepRequest) Validate() error {
	if err := r.Design.Validate(); err != nil {
		return apperrors.ConfigInvalid(err.Error())
	}
	if err := r.Grid.Validate(); err != nil {
		return apperrors.ConfigInvalid(err.Error())
	}
	if r.Replicates <= 0 {
		return apperrors.ConfigInvalid("replicate count must be positive")
	}
	if math.IsNaN(r.Threshold) || math.IsInf(r.Threshold, 0) {
		return apperrors.ConfigInvalid("evidence threshold must be finite")
	}
	return nil
}

// NewSweepService creates a sweep service. The repository may be nil when
// results are consumed directly by the caller. workers bounds the number of
// grid points evaluated concurrently; <= 0 means one worker per CPU.
func NewSweepService(comparator ports.ModelComparator, rngPort ports.RNGPort, repository ports.SweepRepository, workers int) *SweepService {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &SweepService{
		runner:     simulate.NewReplicateRunner(comparator, rngPort),
		repository: repository,
		workers:    int64(workers),
		logger:     internal.NewComponentLogger("SweepService"),
	}
}

// RunSweep executes the full grid sweep. Grid points are independent units of
// work dispatched to a bounded worker pool; each point's summary row is
// written into a pre-sized slice at its enumeration position, so the result
// table order matches the declared axis order (outer axis first) regardless
// of scheduling. Cancellation is honored between grid-point units: a
// cancelled sweep returns an error and persists nothing.
func (s *SweepService) RunSweep(ctx context.Context, req SweepRequest) (*design.SweepResult, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	sweepID := req.SweepID
	if sweepID == "" {
		sweepID = core.SweepID(core.NewID())
	}

	points := req.Grid.Enumerate()
	rows := make([]design.SummaryRow, len(points))

	s.logger.Info("sweep %s: %d grid points x %d replicates, seed %d",
		sweepID, len(points), req.Replicates, req.Seed)

	sem := semaphore.NewWeighted(s.workers)
	g, gctx := errgroup.WithContext(ctx)
	for i, point := range points {
		i, point := i, point
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			batch, err := s.runner.Run(gctx, req.Design, point, req.Replicates, req.Seed)
			if err != nil {
				return err
			}
			rows[i] = aggregate.Row(point, batch, req.Threshold)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if gctx.Err() != nil {
			return nil, apperrors.SweepCancelled(err)
		}
		return nil, apperrors.Wrap(err, "sweep execution failed")
	}

	table := design.ResultTable{Rows: rows}
	manifest := design.NewSweepManifest(sweepID, req.Seed, req.Threshold, req.Replicates, req.Design, req.Grid)
	for _, row := range rows {
		manifest.MissingTotal += row.MissingCount
		if row.Metric.Defined {
			manifest.ScoredCells++
		} else {
			manifest.UndefinedCells++
		}
	}
	manifest.RuntimeMs = time.Since(startTime).Milliseconds()

	result := &design.SweepResult{
		SweepID:     sweepID,
		Table:       table,
		Manifest:    *manifest,
		Fingerprint: table.Fingerprint(),
		RuntimeMs:   manifest.RuntimeMs,
	}

	if s.repository != nil {
		if err := s.repository.SaveSweep(ctx, result); err != nil {
			return nil, apperrors.StoreError("failed to persist sweep result", err)
		}
	}

	s.logger.Info("sweep %s: completed in %dms, %d/%d cells scored, %d missing replicates",
		sweepID, result.RuntimeMs, manifest.ScoredCells, manifest.TotalCells, manifest.MissingTotal)

	return result, nil
}

// GetSweep fetches a previously persisted sweep.
func (s *SweepService) GetSweep(ctx context.Context, id core.SweepID) (*design.SweepResult, error) {
	if s.repository == nil {
		return nil, apperrors.NotFound("sweep repository")
	}
	return s.repository.GetSweep(ctx, id)
}
