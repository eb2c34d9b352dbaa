package design

import "math"

// Observation is one synthetic data row: a participant measured at one
// condition level.
type Observation struct {
	Participant int     `json:"participant"`
	Level       float64 `json:"level"`
	Response    float64 `json:"response"`
}

// Dataset is one simulated experiment. It is owned exclusively by the
// replicate iteration that created it and is discarded as soon as its
// evidence statistic has been extracted.
type Dataset struct {
	Rows []Observation `json:"rows"`
}

// Len returns the number of observations.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Finite reports whether every response value is a finite real.
func (d Dataset) Finite() bool {
	for _, r := range d.Rows {
		if math.IsNaN(r.Response) || math.IsInf(r.Response, 0) {
			return false
		}
	}
	return true
}

// Levels returns the condition-level column.
func (d Dataset) Levels() []float64 {
	xs := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		xs[i] = r.Level
	}
	return xs
}

// Responses returns the response column.
func (d Dataset) Responses() []float64 {
	ys := make([]float64, len(d.Rows))
	for i, r := range d.Rows {
		ys[i] = r.Response
	}
	return ys
}
