package metrics

import (
	"math"

	"github.com/san-kum/sphsim/internal/sph"
)

// Compression is the peak relative density excess max(ρ/ρ0 − 1) seen over
// all observations. A weakly compressible fluid should stay within a few
// percent.
type Compression struct {
	name string
	peak float64
}

func NewCompression() *Compression {
	return &Compression{name: "compression"}
}

func (c *Compression) Name() string { return c.name }

func (c *Compression) Observe(s *sph.Solver, t float64) {
	rho0 := s.Params().RestDensity
	for _, p := range s.Particles() {
		c.peak = math.Max(c.peak, p.Density/rho0-1)
	}
}

func (c *Compression) Value() float64 { return c.peak }

func (c *Compression) Reset() { c.peak = 0 }
