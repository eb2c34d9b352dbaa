package design

import (
	"gopower/domain/core"
)

// SweepManifest captures the audit metadata for one completed sweep: what was
// configured, what was executed, and the counts a reviewer needs to judge the
// result table.
type SweepManifest struct {
	SweepID    core.SweepID   `json:"sweep_id"`
	Seed       int64          `json:"seed"`
	Threshold  float64        `json:"threshold"`
	Replicates int            `json:"replicates"`
	Design     DesignSpec     `json:"design"`
	Grid       Grid           `json:"grid"`
	CreatedAt  core.Timestamp `json:"created_at"`

	// Execution counts, filled in after the sweep completes.
	TotalCells     int   `json:"total_cells"`
	ScoredCells    int   `json:"scored_cells"`
	UndefinedCells int   `json:"undefined_cells"`
	MissingTotal   int   `json:"missing_total"`
	RuntimeMs      int64 `json:"runtime_ms"`
}

// NewSweepManifest records the configuration half of the manifest.
func NewSweepManifest(sweepID core.SweepID, seed int64, threshold float64, replicates int, spec DesignSpec, grid Grid) *SweepManifest {
	return &SweepManifest{
		SweepID:    sweepID,
		Seed:       seed,
		Threshold:  threshold,
		Replicates: replicates,
		Design:     spec,
		Grid:       grid,
		CreatedAt:  core.Now(),
		TotalCells: grid.Size(),
	}
}

// SweepResult is the complete output of one sweep: the ordered result table,
// its manifest, and a deterministic fingerprint.
type SweepResult struct {
	SweepID     core.SweepID  `json:"sweep_id"`
	Table       ResultTable   `json:"table"`
	Manifest    SweepManifest `json:"manifest"`
	Fingerprint core.Hash     `json:"fingerprint"`
	RuntimeMs   int64         `json:"runtime_ms"`
}
