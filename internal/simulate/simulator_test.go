package simulate

import (
	"math/rand"
	"reflect"
	"testing"

	"gopower/domain/design"
)

func hierarchicalSpec() design.DesignSpec {
	return design.DesignSpec{
		Participants: 10,
		Levels:       []float64{0, 1, 2, 3},
		Mode:         design.ModeHierarchical,
		Pair:         design.PairSlopeVsIntercept,
	}
}

func TestSimulateHierarchicalShape(t *testing.T) {
	sim := NewSimulator()
	spec := hierarchicalSpec()
	point := design.GridPoint{InterceptMean: 1, SlopeMean: 0.5, InterceptSD: 1, SlopeSD: 0.3}

	ds, err := sim.Simulate(spec, point, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	wantRows := spec.Participants * len(spec.Levels)
	if ds.Len() != wantRows {
		t.Fatalf("expected %d rows, got %d", wantRows, ds.Len())
	}
	if !ds.Finite() {
		t.Error("every response must be finite")
	}

	// Each participant appears once per condition level, in order.
	i := 0
	for p := 1; p <= spec.Participants; p++ {
		for _, level := range spec.Levels {
			row := ds.Rows[i]
			if row.Participant != p || row.Level != level {
				t.Fatalf("row %d: expected participant %d at level %g, got %d at %g",
					i, p, level, row.Participant, row.Level)
			}
			i++
		}
	}
}

func TestSimulateHierarchicalIsLinearPerParticipant(t *testing.T) {
	sim := NewSimulator()
	spec := hierarchicalSpec()
	point := design.GridPoint{InterceptMean: 0, SlopeMean: 1, InterceptSD: 2, SlopeSD: 1}

	ds, err := sim.Simulate(spec, point, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	// Generation adds no residual term, so within one participant the rows
	// must sit exactly on a line: y(x) - y(0) = b*x for some shared b.
	levels := spec.Levels
	for p := 0; p < spec.Participants; p++ {
		rows := ds.Rows[p*len(levels) : (p+1)*len(levels)]
		a := rows[0].Response // level 0 row
		b := rows[1].Response - a
		for _, row := range rows {
			want := a + b*row.Level
			if diff := row.Response - want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("participant %d: response at level %g deviates from line: got %g, want %g",
					row.Participant, row.Level, row.Response, want)
			}
		}
	}
}

func TestSimulateDeterministicGivenStream(t *testing.T) {
	sim := NewSimulator()
	spec := hierarchicalSpec()
	point := design.GridPoint{InterceptMean: 1, SlopeMean: 0.5, InterceptSD: 1, SlopeSD: 0.3}

	ds1, err := sim.Simulate(spec, point, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	ds2, err := sim.Simulate(spec, point, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if !reflect.DeepEqual(ds1, ds2) {
		t.Error("identical streams must reproduce identical datasets")
	}
}

func TestSimulateConstantEffect(t *testing.T) {
	sim := NewSimulator()
	spec := hierarchicalSpec()
	spec.Mode = design.ModeConstantEffect
	point := design.GridPoint{InterceptMean: 2, SlopeMean: 0, NoiseSD: 0}

	ds, err := sim.Simulate(spec, point, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	if ds.Len() != spec.Participants {
		t.Fatalf("constant-effect mode: expected one row per participant, got %d", ds.Len())
	}

	allowed := map[float64]bool{}
	for _, l := range spec.Levels {
		allowed[l] = true
	}
	for _, row := range ds.Rows {
		if !allowed[row.Level] {
			t.Errorf("sampled level %g not in the configured level set", row.Level)
		}
		// Zero slope and zero noise pin every response at the intercept mean.
		if row.Response != 2 {
			t.Errorf("expected response 2, got %g", row.Response)
		}
	}
}

func TestSimulateZeroSpreadCollapsesToMeans(t *testing.T) {
	sim := NewSimulator()
	spec := hierarchicalSpec()
	point := design.GridPoint{InterceptMean: 1, SlopeMean: 0.5, InterceptSD: 0, SlopeSD: 0}

	ds, err := sim.Simulate(spec, point, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	for _, row := range ds.Rows {
		want := 1 + 0.5*row.Level
		if row.Response != want {
			t.Errorf("level %g: expected %g, got %g", row.Level, want, row.Response)
		}
	}
}

func TestSimulateRejectsBadInputs(t *testing.T) {
	sim := NewSimulator()
	spec := hierarchicalSpec()

	if _, err := sim.Simulate(spec, design.GridPoint{InterceptSD: -1}, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for negative standard deviation")
	}
	if _, err := sim.Simulate(spec, design.GridPoint{}, nil); err == nil {
		t.Error("expected error for nil stream")
	}

	spec.Mode = "jackknife"
	if _, err := sim.Simulate(spec, design.GridPoint{}, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for unknown mode")
	}
}
