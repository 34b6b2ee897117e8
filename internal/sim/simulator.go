package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/sph"
)

type Simulator struct {
	controller Controller
	metrics    []Metric
	observers  []Observer
}

// New returns a simulator. A nil controller leaves the wall where it is.
func New(controller Controller) *Simulator {
	return &Simulator{
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances solver for cfg.Steps steps. The context is checked between
// steps; on cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, solver *sph.Solver, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Steps/cfg.SampleEvery+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Samples = append(result.Samples, sample(solver, 0, t))

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, solver, t)
			return result, ctx.Err()
		default:
		}

		if s.controller != nil {
			solver.SetWallLeft(s.controller.Compute(solver, t))
		}

		solver.Step(cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if cfg.ValidateState {
			if idx, ok := firstInvalid(solver.Particles()); !ok {
				result.Errors = append(result.Errors, SimError{
					Time: t, Step: i, Particle: idx, Message: ErrDiverged.Error(),
				})
				break
			}
		}

		for _, m := range s.metrics {
			m.Observe(solver, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(solver, i, t)
		}

		if (i+1)%cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, sample(solver, i+1, t))
		}
	}

	s.finish(result, solver, t)
	return result, nil
}

func (s *Simulator) finish(result *Result, solver *sph.Solver, t float64) {
	result.Time = t
	result.Final = solver.Snapshot(nil)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback steps until callback returns false, the context is done
// or cfg.Steps is reached. callback sees the solver before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, solver *sph.Solver, cfg Config, callback func(*sph.Solver, float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	t := 0.0
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(solver, t) {
			return nil
		}

		if s.controller != nil {
			solver.SetWallLeft(s.controller.Compute(solver, t))
		}
		solver.Step(cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState {
			if idx, ok := firstInvalid(solver.Particles()); !ok {
				return fmt.Errorf("%w: particle %d at t=%.4f", ErrDiverged, idx, t)
			}
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Steps < 1 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.SampleEvery < 1 {
		return fmt.Errorf("%w: sample interval must be positive, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

func sample(solver *sph.Solver, step int, t float64) Sample {
	sum := metrics.Summarize(solver.Particles(), solver.Params().Gravity)
	return Sample{
		Step:            step,
		Time:            t,
		WallLeft:        solver.WallLeft(),
		KineticEnergy:   sum.KineticEnergy,
		PotentialEnergy: sum.PotentialEnergy,
		MeanDensity:     sum.MeanDensity,
		MaxDensity:      sum.MaxDensity,
		MaxPressure:     sum.MaxPressure,
		MaxSpeed:        sum.MaxSpeed,
	}
}

func firstInvalid(ps []sph.Particle) (int, bool) {
	for i, p := range ps {
		for _, v := range [...]float64{p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return i, false
			}
		}
	}
	return -1, true
}
