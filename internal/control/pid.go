package control

import (
	"math"

	"github.com/san-kum/sphsim/internal/sph"
)

// PID moves the wall as a piston so that the peak particle density tracks
// Target. Positive error (fluid too sparse) pushes the wall right. The
// output is a wall velocity; the wall stays within [0, Width/2].
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

func (p *PID) Compute(s *sph.Solver, t float64) float64 {
	wall := s.WallLeft()
	peak := 0.0
	for _, q := range s.Particles() {
		peak = math.Max(peak, q.Density)
	}
	// normalised so gains are independent of the density scale
	err := (p.Target - peak) / p.Target

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return wall
	}

	dt := t - p.prevT
	if dt <= 0 {
		return wall
	}

	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err
	p.prevT = t

	velocity := p.Kp*err + p.Ki*p.integral + p.Kd*derivative
	next := wall + velocity*dt
	return math.Min(math.Max(next, 0), s.Params().Width/2)
}

// Reset clears the integral and derivative history.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}
