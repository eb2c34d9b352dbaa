package simulate

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"gopower/domain/design"
)

// Simulator realizes one synthetic dataset for one grid point under a fixed
// design. All stochastic behavior flows through the stream it is handed, so a
// given (stream, point, design) triple always yields the same dataset.
type Simulator struct{}

// NewSimulator creates a data simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Simulate produces one simulated experiment. The caller owns the returned
// dataset and is expected to discard it once its evidence statistic has been
// extracted.
func (s *Simulator) Simulate(spec design.DesignSpec, point design.GridPoint, stream *rand.Rand) (design.Dataset, error) {
	if stream == nil {
		return design.Dataset{}, fmt.Errorf("random stream cannot be nil")
	}
	if point.InterceptSD < 0 || point.SlopeSD < 0 || point.NoiseSD < 0 {
		return design.Dataset{}, fmt.Errorf("standard deviations must be non-negative")
	}

	switch spec.Mode {
	case design.ModeHierarchical:
		return s.simulateHierarchical(spec, point, stream), nil
	case design.ModeConstantEffect:
		return s.simulateConstantEffect(spec, point, stream), nil
	default:
		return design.Dataset{}, fmt.Errorf("unknown generation mode %q", spec.Mode)
	}
}

// simulateHierarchical draws a per-participant intercept and slope from their
// population distributions and emits one noiseless row per (participant,
// level) pair. The absence of a residual term at this stage is the modeling
// choice for the primary sweep, not an omission.
func (s *Simulator) simulateHierarchical(spec design.DesignSpec, point design.GridPoint, stream *rand.Rand) design.Dataset {
	src := normalSource{stream}
	interceptDist := distuv.Normal{Mu: point.InterceptMean, Sigma: point.InterceptSD, Src: src}
	slopeDist := distuv.Normal{Mu: point.SlopeMean, Sigma: point.SlopeSD, Src: src}

	rows := make([]design.Observation, 0, spec.Participants*len(spec.Levels))
	for p := 1; p <= spec.Participants; p++ {
		a := interceptDist.Rand()
		b := slopeDist.Rand()
		for _, x := range spec.Levels {
			rows = append(rows, design.Observation{
				Participant: p,
				Level:       x,
				Response:    a + b*x,
			})
		}
	}
	return design.Dataset{Rows: rows}
}

// simulateConstantEffect holds the intercept and slope fixed at the
// population means and resamples the condition level and residual noise per
// observation, one row per participant.
func (s *Simulator) simulateConstantEffect(spec design.DesignSpec, point design.GridPoint, stream *rand.Rand) design.Dataset {
	src := normalSource{stream}
	noiseDist := distuv.Normal{Mu: 0, Sigma: point.NoiseSD, Src: src}

	rows := make([]design.Observation, 0, spec.Participants)
	for p := 1; p <= spec.Participants; p++ {
		x := spec.Levels[stream.Intn(len(spec.Levels))]
		rows = append(rows, design.Observation{
			Participant: p,
			Level:       x,
			Response:    point.InterceptMean + point.SlopeMean*x + noiseDist.Rand(),
		})
	}
	return design.Dataset{Rows: rows}
}

// normalSource adapts a math/rand stream to the source interface distuv
// samples from.
type normalSource struct {
	r *rand.Rand
}

func (s normalSource) Uint64() uint64 {
	return s.r.Uint64()
}

// Seed is required by the rand.Source interface distuv samples from; distuv
// never invokes it, so it simply forwards to the wrapped stream.
func (s normalSource) Seed(seed uint64) {
	s.r.Seed(int64(seed))
}
