package control

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/sphsim/internal/sph"
)

// ErrUnknownController is returned by Build for an unrecognised kind.
var ErrUnknownController = errors.New("control: unknown controller")

// Controller computes the left wall position at time t.
type Controller interface {
	Compute(s *sph.Solver, t float64) float64
}

// Spec describes a controller in configuration files.
type Spec struct {
	Kind      string     `yaml:"controller"`
	Left      float64    `yaml:"left"`
	Keyframes []Keyframe `yaml:"keyframes,omitempty"`
	Amplitude float64    `yaml:"amplitude,omitempty"`
	Period    float64    `yaml:"period,omitempty"`
	Target    float64    `yaml:"target,omitempty"`
	Kp        float64    `yaml:"kp,omitempty"`
	Ki        float64    `yaml:"ki,omitempty"`
	Kd        float64    `yaml:"kd,omitempty"`
}

var builders = map[string]func(Spec) (Controller, error){
	"hold": func(s Spec) (Controller, error) { return NewHold(s.Left), nil },
	"schedule": func(s Spec) (Controller, error) {
		if len(s.Keyframes) == 0 {
			return nil, fmt.Errorf("control: schedule needs at least one keyframe")
		}
		return NewSchedule(s.Keyframes), nil
	},
	"oscillator": func(s Spec) (Controller, error) {
		if s.Period <= 0 {
			return nil, fmt.Errorf("control: oscillator period must be positive, got %g", s.Period)
		}
		return NewOscillator(s.Left, s.Amplitude, s.Period), nil
	},
	"pid": func(s Spec) (Controller, error) {
		if s.Target <= 0 {
			return nil, fmt.Errorf("control: pid target density must be positive, got %g", s.Target)
		}
		return NewPID(s.Kp, s.Ki, s.Kd, s.Target), nil
	},
}

// Build returns the controller described by s. An empty kind is "hold".
func Build(s Spec) (Controller, error) {
	kind := s.Kind
	if kind == "" {
		kind = "hold"
	}
	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownController, s.Kind)
	}
	return b(s)
}

// Kinds lists the controller kinds Build understands.
func Kinds() []string {
	kinds := make([]string, 0, len(builders))
	for k := range builders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Hold keeps the wall still.
type Hold struct {
	Left float64
}

func NewHold(left float64) *Hold {
	return &Hold{Left: left}
}

func (h *Hold) Compute(_ *sph.Solver, _ float64) float64 {
	return h.Left
}
