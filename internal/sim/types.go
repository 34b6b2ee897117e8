package sim

import (
	"fmt"

	"github.com/san-kum/sphsim/internal/sph"
)

// Controller positions the left wall before each step.
type Controller interface {
	Compute(s *sph.Solver, t float64) float64
}

type Metric interface {
	Name() string
	Observe(s *sph.Solver, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *sph.Solver, step int, t float64)
}

type Config struct {
	Dt            float64
	Steps         int
	SampleEvery   int
	ValidateState bool
}

// Sample is one row of the recorded time series.
type Sample struct {
	Step            int     `json:"step"`
	Time            float64 `json:"time"`
	WallLeft        float64 `json:"wall_left"`
	KineticEnergy   float64 `json:"kinetic_energy"`
	PotentialEnergy float64 `json:"potential_energy"`
	MeanDensity     float64 `json:"mean_density"`
	MaxDensity      float64 `json:"max_density"`
	MaxPressure     float64 `json:"max_pressure"`
	MaxSpeed        float64 `json:"max_speed"`
}

type Result struct {
	Samples    []Sample
	Final      []sph.Particle
	Metrics    map[string]float64
	StepsTaken int
	Time       float64
	Errors     []error
}

// Column extracts one field of every sample.
func (r *Result) Column(f func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = f(s)
	}
	return out
}

// SimError reports a step that produced a non-finite particle state.
type SimError struct {
	Time     float64
	Step     int
	Particle int
	Message  string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) particle %d: %s", e.Step, e.Time, e.Particle, e.Message)
}
