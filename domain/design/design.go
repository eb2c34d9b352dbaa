package design

import (
	"fmt"
	"math"
)

// GenerationMode selects how a synthetic dataset is realized for a replicate.
type GenerationMode string

const (
	// ModeHierarchical resamples a per-participant intercept and slope from their
	// population distributions and emits one row per (participant, level) pair.
	// This is the primary mode for full grid sweeps.
	ModeHierarchical GenerationMode = "hierarchical"

	// ModeConstantEffect holds the intercept and slope fixed at their population
	// means and resamples the condition level and residual noise per observation,
	// one row per participant.
	ModeConstantEffect GenerationMode = "constant_effect"
)

// ModelPair identifies the full/null model comparison a comparator should run.
// The engine passes it through opaquely.
type ModelPair string

const (
	// PairSlopeVsIntercept compares a linear model with a slope term against an
	// intercept-only null.
	PairSlopeVsIntercept ModelPair = "slope_vs_intercept"
)

// DesignSpec is the fixed experimental design shared by every grid point of a
// sweep. It is created once per run and never mutated.
type DesignSpec struct {
	// Participants is the number of simulated subjects per dataset.
	Participants int `json:"participants"`

	// Levels are the within-subject condition values each participant is
	// observed under (hierarchical mode) or sampled from (constant-effect mode).
	Levels []float64 `json:"levels"`

	Mode GenerationMode `json:"mode"`
	Pair ModelPair      `json:"pair"`
}

// Validate checks the design before any simulation begins.
func (d DesignSpec) Validate() error {
	if d.Participants <= 0 {
		return fmt.Errorf("sample size must be positive, got %d", d.Participants)
	}
	if len(d.Levels) == 0 {
		return fmt.Errorf("condition level set cannot be empty")
	}
	for i, l := range d.Levels {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return fmt.Errorf("condition level %d is not finite", i)
		}
	}
	switch d.Mode {
	case ModeHierarchical, ModeConstantEffect:
	default:
		return fmt.Errorf("unknown generation mode %q", d.Mode)
	}
	if d.Pair == "" {
		return fmt.Errorf("model pair cannot be empty")
	}
	return nil
}

// RowsPerDataset returns the number of observations one simulated dataset
// will contain under this design.
func (d DesignSpec) RowsPerDataset() int {
	if d.Mode == ModeConstantEffect {
		return d.Participants
	}
	return d.Participants * len(d.Levels)
}
