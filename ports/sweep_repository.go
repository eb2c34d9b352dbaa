package ports

import (
	"context"

	"gopower/domain/core"
	"gopower/domain/design"
)

// SweepRepository persists completed sweep results. Only whole sweeps are
// stored; a cancelled sweep contributes nothing.
type SweepRepository interface {
	SaveSweep(ctx context.Context, result *design.SweepResult) error
	GetSweep(ctx context.Context, id core.SweepID) (*design.SweepResult, error)
	ListSweeps(ctx context.Context) ([]design.SweepManifest, error)
}

// TableExporter writes a sweep result to an external tabular format.
type TableExporter interface {
	Export(result *design.SweepResult, path string) error
}
