package design

import (
	"fmt"
	"math"

	"gopower/domain/core"
)

// GridAxis is one ordered, finite sequence of population-parameter values.
type GridAxis struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Validate checks an axis definition.
func (a GridAxis) Validate() error {
	if a.Label == "" {
		return fmt.Errorf("grid axis label cannot be empty")
	}
	if len(a.Values) == 0 {
		return fmt.Errorf("grid axis %q cannot be empty", a.Label)
	}
	for i, v := range a.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("grid axis %q value %d is not finite", a.Label, i)
		}
	}
	return nil
}

// Grid defines the full parameter sweep: the two population-mean axes plus the
// nuisance standard deviations shared by every grid point.
type Grid struct {
	// InterceptMeans is the outer axis of the enumeration.
	InterceptMeans GridAxis `json:"intercept_means"`
	// SlopeMeans is the inner axis of the enumeration.
	SlopeMeans GridAxis `json:"slope_means"`

	// InterceptSD and SlopeSD are the between-participant spreads, fixed across
	// all grid points (hierarchical mode).
	InterceptSD float64 `json:"intercept_sd"`
	SlopeSD     float64 `json:"slope_sd"`

	// NoiseSD is the residual spread used by constant-effect mode. Hierarchical
	// generation adds no residual term at this stage.
	NoiseSD float64 `json:"noise_sd"`
}

// Validate checks the grid definition before any simulation begins.
func (g Grid) Validate() error {
	if err := g.InterceptMeans.Validate(); err != nil {
		return err
	}
	if err := g.SlopeMeans.Validate(); err != nil {
		return err
	}
	if g.InterceptSD < 0 || g.SlopeSD < 0 || g.NoiseSD < 0 {
		return fmt.Errorf("standard deviations must be non-negative")
	}
	return nil
}

// Size returns the number of grid points the sweep will evaluate.
func (g Grid) Size() int {
	return len(g.InterceptMeans.Values) * len(g.SlopeMeans.Values)
}

// Enumerate walks the Cartesian product in axis-major order: the outer
// (intercept) axis varies slowest, the inner (slope) axis fastest. Result
// table rows follow this order exactly, so downstream consumers can zip the
// rows back into a 2-D grid.
func (g Grid) Enumerate() []GridPoint {
	points := make([]GridPoint, 0, g.Size())
	for _, a := range g.InterceptMeans.Values {
		for _, b := range g.SlopeMeans.Values {
			points = append(points, GridPoint{
				InterceptMean: a,
				SlopeMean:     b,
				InterceptSD:   g.InterceptSD,
				SlopeSD:       g.SlopeSD,
				NoiseSD:       g.NoiseSD,
			})
		}
	}
	return points
}

// GridPoint is one cell of the sweep: the hypothesized population means plus
// the shared nuisance parameters. Immutable once enumerated.
type GridPoint struct {
	InterceptMean float64 `json:"intercept_mean"`
	SlopeMean     float64 `json:"slope_mean"`
	InterceptSD   float64 `json:"intercept_sd"`
	SlopeSD       float64 `json:"slope_sd"`
	NoiseSD       float64 `json:"noise_sd"`
}

// Key returns the coordinate identity of the grid point. Used to partition
// deterministic random substreams, so it must depend only on the coordinates.
func (p GridPoint) Key() core.CellKey {
	return core.CellKey(fmt.Sprintf("a=%g|b=%g", p.InterceptMean, p.SlopeMean))
}

// IsNull reports whether the cell sits on the no-effect boundary, where the
// aggregate metric reads as a false-positive rate rather than power.
func (p GridPoint) IsNull() bool {
	return p.SlopeMean == 0
}
