// Package testkit provides in-memory adapters and fixtures for exercising the
// sweep engine without a database or a real statistical backend.
package testkit

import (
	"context"
	"sort"
	"sync"

	"gopower/domain/core"
	"gopower/domain/design"
	apperrors "gopower/internal/errors"
	"gopower/ports"
)

// InMemorySweepRepository keeps sweep results in a map. Safe for concurrent use.
type InMemorySweepRepository struct {
	mu     sync.RWMutex
	sweeps map[core.SweepID]*design.SweepResult
}

// NewInMemorySweepRepository creates an empty repository.
func NewInMemorySweepRepository() *InMemorySweepRepository {
	return &InMemorySweepRepository{sweeps: make(map[core.SweepID]*design.SweepResult)}
}

var _ ports.SweepRepository = (*InMemorySweepRepository)(nil)

// SaveSweep stores a sweep result.
func (r *InMemorySweepRepository) SaveSweep(ctx context.Context, result *design.SweepResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps[result.SweepID] = result
	return nil
}

// GetSweep fetches a stored sweep result.
func (r *InMemorySweepRepository) GetSweep(ctx context.Context, id core.SweepID) (*design.SweepResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.sweeps[id]
	if !ok {
		return nil, apperrors.NotFound("sweep " + id.String())
	}
	return result, nil
}

// ListSweeps returns stored manifests ordered by sweep ID.
func (r *InMemorySweepRepository) ListSweeps(ctx context.Context) ([]design.SweepManifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	manifests := make([]design.SweepManifest, 0, len(r.sweeps))
	for _, s := range r.sweeps {
		manifests = append(manifests, s.Manifest)
	}
	sort.Slice(manifests, func(i, j int) bool { return manifests[i].SweepID < manifests[j].SweepID })
	return manifests, nil
}

// Len returns the number of stored sweeps.
func (r *InMemorySweepRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sweeps)
}
