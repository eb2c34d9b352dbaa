package ports

import (
	"context"
	"math/rand"

	"gopower/domain/core"
)

// RNGPort provides seeded random number generation for deterministic sweeps
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// ReplicateStream creates a deterministic RNG substream for one replicate of
	// one grid cell. Substreams are partitioned by (cell, replicate) so parallel
	// workers own non-overlapping streams and a sweep reproduces byte-identically
	// for a given base seed regardless of scheduling order.
	ReplicateStream(ctx context.Context, cell core.CellKey, replicate int, baseSeed int64) (*rand.Rand, error)
}
