package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphsim/internal/control"
	"github.com/san-kum/sphsim/internal/sph"
)

const (
	DefaultDt          = 0.0001
	DefaultSteps       = 5000
	DefaultSampleEvery = 50
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name        string       `yaml:"name"`
	Dt          float64      `yaml:"dt"`
	Steps       int          `yaml:"steps"`
	SampleEvery int          `yaml:"sample_every"`
	Workers     int          `yaml:"workers"`
	Params      ParamsConfig `yaml:"params"`
	Wall        control.Spec `yaml:"wall"`
}

// ParamsConfig mirrors sph.Params with yaml keys.
type ParamsConfig struct {
	KernelRange      float64 `yaml:"kernel_range"`
	RestDensity      float64 `yaml:"rest_density"`
	Stiffness        float64 `yaml:"stiffness"`
	Viscosity        float64 `yaml:"viscosity"`
	Gravity          float64 `yaml:"gravity"`
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	ParticlesPerSide int     `yaml:"particles_per_side"`
	Spacing          float64 `yaml:"spacing"`
	Mass             float64 `yaml:"mass"`
	SeedLeft         float64 `yaml:"seed_left"`
	SeedTop          float64 `yaml:"seed_top"`
}

func fromParams(p sph.Params) ParamsConfig {
	return ParamsConfig{
		KernelRange:      p.KernelRange,
		RestDensity:      p.RestDensity,
		Stiffness:        p.Stiffness,
		Viscosity:        p.Viscosity,
		Gravity:          p.Gravity,
		Width:            p.Width,
		Height:           p.Height,
		ParticlesPerSide: p.ParticlesPerSide,
		Spacing:          p.Spacing,
		Mass:             p.Mass,
		SeedLeft:         p.SeedLeft,
		SeedTop:          p.SeedTop,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "dam_break",
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Workers:     1,
		Params:      fromParams(sph.DefaultParams()),
		Wall:        control.Spec{Kind: "hold"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Wall.Keyframes = append([]control.Keyframe(nil), c.Wall.Keyframes...)
	return &out
}

// SolverParams converts the configuration into solver constants.
func (c *Config) SolverParams() sph.Params {
	p := c.Params
	return sph.Params{
		KernelRange:      p.KernelRange,
		RestDensity:      p.RestDensity,
		Stiffness:        p.Stiffness,
		Viscosity:        p.Viscosity,
		Gravity:          p.Gravity,
		Width:            p.Width,
		Height:           p.Height,
		ParticlesPerSide: p.ParticlesPerSide,
		Spacing:          p.Spacing,
		Mass:             p.Mass,
		SeedLeft:         p.SeedLeft,
		SeedTop:          p.SeedTop,
		Workers:          c.Workers,
	}
}

// NewSolver builds a solver with the wall at its configured start.
func (c *Config) NewSolver() (*sph.Solver, error) {
	s, err := sph.New(c.SolverParams())
	if err != nil {
		return nil, err
	}
	s.SetWallLeft(c.Wall.Left)
	return s, nil
}

// Controller builds the wall controller.
func (c *Config) Controller() (control.Controller, error) {
	return control.Build(c.Wall)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: steps must be >= 1, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.SampleEvery < 1 {
		return fmt.Errorf("%w: sample_every must be >= 1, got %d", ErrInvalidConfig, c.SampleEvery)
	}
	if maxWall := c.SolverParams().MaxWall(); c.Wall.Left < 0 || c.Wall.Left > maxWall {
		return fmt.Errorf("%w: wall.left %g outside [0, %g]", ErrInvalidConfig, c.Wall.Left, maxWall)
	}
	if c.Params.ParticlesPerSide < 1 || !(c.Params.Spacing > 0) {
		return fmt.Errorf("%w: lattice needs particles_per_side >= 1 and positive spacing", ErrInvalidConfig)
	}
	if err := c.SolverParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := c.Controller(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Duration is the simulated time covered by Steps.
func (c *Config) Duration() float64 {
	return float64(c.Steps) * c.Dt
}

// SetParam sets a solver constant or run setting by its yaml key.
func (c *Config) SetParam(name string, v float64) error {
	p := &c.Params
	switch name {
	case "dt":
		c.Dt = v
	case "steps":
		c.Steps = int(v)
	case "workers":
		c.Workers = int(v)
	case "kernel_range":
		p.KernelRange = v
	case "rest_density":
		p.RestDensity = v
	case "stiffness":
		p.Stiffness = v
	case "viscosity":
		p.Viscosity = v
	case "gravity":
		p.Gravity = v
	case "width":
		p.Width = v
	case "height":
		p.Height = v
	case "particles_per_side":
		p.ParticlesPerSide = int(v)
	case "spacing":
		p.Spacing = v
	case "mass":
		p.Mass = v
	case "seed_left":
		p.SeedLeft = v
	case "seed_top":
		p.SeedTop = v
	case "wall_left":
		c.Wall.Left = v
	case "amplitude":
		c.Wall.Amplitude = v
	case "period":
		c.Wall.Period = v
	case "kp":
		c.Wall.Kp = v
	case "ki":
		c.Wall.Ki = v
	case "kd":
		c.Wall.Kd = v
	case "target":
		c.Wall.Target = v
	default:
		return fmt.Errorf("config: unknown parameter %q", name)
	}
	return nil
}

// Param reads a value by the key SetParam accepts.
func (c *Config) Param(name string) (float64, error) {
	p := c.Params
	switch name {
	case "dt":
		return c.Dt, nil
	case "steps":
		return float64(c.Steps), nil
	case "workers":
		return float64(c.Workers), nil
	case "kernel_range":
		return p.KernelRange, nil
	case "rest_density":
		return p.RestDensity, nil
	case "stiffness":
		return p.Stiffness, nil
	case "viscosity":
		return p.Viscosity, nil
	case "gravity":
		return p.Gravity, nil
	case "width":
		return p.Width, nil
	case "height":
		return p.Height, nil
	case "particles_per_side":
		return float64(p.ParticlesPerSide), nil
	case "spacing":
		return p.Spacing, nil
	case "mass":
		return p.Mass, nil
	case "seed_left":
		return p.SeedLeft, nil
	case "seed_top":
		return p.SeedTop, nil
	case "wall_left":
		return c.Wall.Left, nil
	case "amplitude":
		return c.Wall.Amplitude, nil
	case "period":
		return c.Wall.Period, nil
	case "kp":
		return c.Wall.Kp, nil
	case "ki":
		return c.Wall.Ki, nil
	case "kd":
		return c.Wall.Kd, nil
	case "target":
		return c.Wall.Target, nil
	}
	return 0, fmt.Errorf("config: unknown parameter %q", name)
}
