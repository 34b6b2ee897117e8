package metrics

import (
	"math"

	"github.com/san-kum/sphsim/internal/sph"
)

// Containment is the fraction of observations in which every particle was
// finite, inside the box and slower than the speed threshold.
type Containment struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewContainment(speedThreshold float64) *Containment {
	return &Containment{
		name:      "containment",
		threshold: speedThreshold,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(s *sph.Solver, t float64) {
	c.samples++
	b := s.Bounds()
	for _, p := range s.Particles() {
		v := math.Hypot(p.Velocity.X, p.Velocity.Y)
		if !b.Contains(p.Position) || math.IsNaN(v) || v > c.threshold {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
