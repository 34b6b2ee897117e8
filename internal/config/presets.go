package config

import (
	"sort"

	"github.com/san-kum/sphsim/internal/control"
)

// Presets are named starting points. GetPreset returns copies.
var Presets = map[string]func() *Config{
	"dam_break": DefaultConfig,
	"small": func() *Config {
		c := DefaultConfig()
		c.Name = "small"
		c.Params.ParticlesPerSide = 12
		c.Steps = 2000
		return c
	},
	"column": func() *Config {
		c := DefaultConfig()
		c.Name = "column"
		c.Params.ParticlesPerSide = 20
		c.Params.SeedLeft = 0.9
		c.Params.SeedTop = 0.3
		return c
	},
	"wave_maker": func() *Config {
		c := DefaultConfig()
		c.Name = "wave_maker"
		c.Params.SeedLeft = 0.3
		c.Params.SeedTop = 0.4
		c.Steps = 20000
		c.SampleEvery = 100
		c.Wall = control.Spec{Kind: "oscillator", Left: 0.1, Amplitude: 0.08, Period: 0.8}
		return c
	},
	"viscous": func() *Config {
		c := DefaultConfig()
		c.Name = "viscous"
		c.Params.Viscosity = 250
		return c
	},
	"piston": func() *Config {
		c := DefaultConfig()
		c.Name = "piston"
		c.Params.SeedLeft = 0.05
		c.Params.SeedTop = 0.4
		c.Steps = 10000
		c.Wall = control.Spec{Kind: "schedule", Keyframes: []control.Keyframe{
			{T: 0, Left: 0},
			{T: 0.5, Left: 0.4},
			{T: 1.0, Left: 0},
		}}
		return c
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
