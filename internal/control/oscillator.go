package control

import (
	"math"

	"github.com/san-kum/sphsim/internal/sph"
)

// Oscillator drives the wall sinusoidally around Centre. The output is
// clamped to the solver's tank, or to x >= 0 without a solver.
type Oscillator struct {
	Centre    float64
	Amplitude float64
	Period    float64
}

func NewOscillator(centre, amplitude, period float64) *Oscillator {
	return &Oscillator{Centre: centre, Amplitude: amplitude, Period: period}
}

func (o *Oscillator) Compute(s *sph.Solver, t float64) float64 {
	x := o.Centre + o.Amplitude*math.Sin(2*math.Pi*t/o.Period)
	if s == nil {
		return math.Max(0, x)
	}
	return s.Params().ClampWall(x)
}
