package automation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/control"
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun is one run of a scenario. Zero fields keep the preset's value.
type ScenarioRun struct {
	Name   string             `yaml:"name"`
	Preset string             `yaml:"preset"`
	Steps  int                `yaml:"steps"`
	Dt     float64            `yaml:"dt"`
	Params map[string]float64 `yaml:"params"`
	Wall   *control.Spec      `yaml:"wall"`
	SaveAs string             `yaml:"save_as"`
}

// RunOutput pairs a run's resolved configuration with its result.
type RunOutput struct {
	Name   string
	SaveAs string
	Config *config.Config
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}

	return &scenario, nil
}

// Resolve builds the configuration of a run from its preset and overrides.
func (r ScenarioRun) Resolve() (*config.Config, error) {
	preset := r.Preset
	if preset == "" {
		preset = "dam_break"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("automation: unknown preset %q", preset)
	}
	if r.Name != "" {
		cfg.Name = r.Name
	}
	if r.Steps > 0 {
		cfg.Steps = r.Steps
	}
	if r.Dt > 0 {
		cfg.Dt = r.Dt
	}
	for k, v := range r.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if r.Wall != nil {
		cfg.Wall = *r.Wall
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunConfig executes one configuration with the standard metrics.
func RunConfig(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	solver, err := cfg.NewSolver()
	if err != nil {
		return nil, err
	}
	ctrl, err := cfg.Controller()
	if err != nil {
		return nil, err
	}

	s := sim.New(ctrl)
	for _, m := range sim.StandardMetrics() {
		s.AddMetric(m)
	}
	return s.Run(ctx, solver, runSettings(cfg))
}

func runSettings(cfg *config.Config) sim.Config {
	return sim.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: true,
	}
}

// RunScenario executes all runs in order, reporting progress to w.
func RunScenario(ctx context.Context, scenario *Scenario, w io.Writer) ([]RunOutput, error) {
	if w == nil {
		w = io.Discard
	}
	outputs := make([]RunOutput, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		cfg, err := run.Resolve()
		if err != nil {
			return outputs, fmt.Errorf("run %d: %w", i+1, err)
		}

		fmt.Fprintf(w, "Running %d/%d: %s (%d particles, %d steps)\n",
			i+1, len(scenario.Runs), cfg.Name, cfg.Params.ParticlesPerSide*cfg.Params.ParticlesPerSide, cfg.Steps)

		result, err := RunConfig(ctx, cfg)
		if err != nil {
			return outputs, fmt.Errorf("run %d: %w", i+1, err)
		}

		outputs = append(outputs, RunOutput{Name: cfg.Name, SaveAs: run.SaveAs, Config: cfg, Result: result})
	}

	return outputs, nil
}

// ParameterSweep runs one preset across a range of one parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Steps     int
	Workers   int
}

// SweepResult summarises one sweep point.
type SweepResult struct {
	ParamValue  float64
	MaxPressure float64
	MaxSpeed    float64
	Compression float64
	Containment float64
	FinalKE     float64
}

// RunSweep executes the sweep points concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one point")
	}
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("automation: unknown preset %q", sweep.Preset)
	}
	if sweep.Steps > 0 {
		base.Steps = sweep.Steps
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	values := make([]float64, sweep.NumSteps)
	jobs := make([]sim.Job, sweep.NumSteps)
	for i := range jobs {
		values[i] = sweep.ParamMin + float64(i)*paramStep
		cfg := base.Clone()
		if err := cfg.SetParam(sweep.ParamName, values[i]); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, values[i], err)
		}
		solver, err := cfg.NewSolver()
		if err != nil {
			return nil, err
		}
		ctrl, err := cfg.Controller()
		if err != nil {
			return nil, err
		}
		jobs[i] = sim.Job{
			Name:       fmt.Sprintf("%s=%g", sweep.ParamName, values[i]),
			Solver:     solver,
			Controller: ctrl,
			Metrics:    sim.StandardMetrics(),
			Config:     runSettings(cfg),
		}
	}

	results, err := sim.NewEnsemble(sweep.Workers).Run(ctx, jobs)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, r := range results {
		sr := SweepResult{
			ParamValue:  values[i],
			Compression: r.Metrics["compression"],
			Containment: r.Metrics["containment"],
		}
		for _, smp := range r.Samples {
			sr.MaxPressure = max(sr.MaxPressure, smp.MaxPressure)
			sr.MaxSpeed = max(sr.MaxSpeed, smp.MaxSpeed)
		}
		if n := len(r.Samples); n > 0 {
			sr.FinalKE = r.Samples[n-1].KineticEnergy
		}
		out[i] = sr
	}
	return out, nil
}

// MonteCarloConfig perturbs the initial lattice of a preset.
type MonteCarloConfig struct {
	Preset       string
	Perturbation float64
	NumTrials    int
	Steps        int
	Seed         int64
}

// MonteCarloResult holds the outcome of one perturbed trial.
type MonteCarloResult struct {
	TrialID     int
	Containment float64
	Stable      bool
}

// RunMonteCarlo jitters every seed position by up to ±Perturbation on each
// axis and records whether the run stayed contained.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, w io.Writer) ([]MonteCarloResult, error) {
	if w == nil {
		w = io.Discard
	}
	cfg := config.GetPreset(mc.Preset)
	if cfg == nil {
		return nil, fmt.Errorf("automation: unknown preset %q", mc.Preset)
	}
	if mc.Steps > 0 {
		cfg.Steps = mc.Steps
	}

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	base, err := cfg.NewSolver()
	if err != nil {
		return nil, err
	}
	seedParticles := base.Snapshot(nil)

	results := make([]MonteCarloResult, 0, mc.NumTrials)
	for trial := 0; trial < mc.NumTrials; trial++ {
		ps := make([]sph.Particle, len(seedParticles))
		for i, p := range seedParticles {
			jitter := r2.Vec{
				X: (rng.Float64() - 0.5) * 2 * mc.Perturbation,
				Y: (rng.Float64() - 0.5) * 2 * mc.Perturbation,
			}
			ps[i] = sph.NewParticle(r2.Add(p.Position, jitter), p.Mass)
		}
		solver, err := sph.NewWithParticles(cfg.SolverParams(), ps)
		if err != nil {
			return nil, err
		}
		solver.SetWallLeft(cfg.Wall.Left)
		ctrl, err := cfg.Controller()
		if err != nil {
			return nil, err
		}

		s := sim.New(ctrl)
		for _, m := range sim.StandardMetrics() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, solver, runSettings(cfg))
		if err != nil {
			return nil, err
		}

		containment := result.Metrics["containment"]
		results = append(results, MonteCarloResult{
			TrialID:     trial,
			Containment: containment,
			Stable:      containment == 1 && len(result.Errors) == 0,
		})

		if (trial+1)%10 == 0 {
			fmt.Fprintf(w, "Monte Carlo: %d/%d trials complete\n", trial+1, mc.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
