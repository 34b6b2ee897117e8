package metrics

import (
	"math"

	"github.com/san-kum/sphsim/internal/sph"
)

// Energy averages the total mechanical energy over observations.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s *sph.Solver, t float64) {
	sum := Summarize(s.Particles(), s.Params().Gravity)
	e.totalEnergy += sum.KineticEnergy + sum.PotentialEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// Dissipation is the largest fraction of the first observed mechanical
// energy lost so far. Wall reflections and viscosity both dissipate, so a
// value near zero after a splash points at an integration problem.
type Dissipation struct {
	name          string
	initialEnergy float64
	maxLoss       float64
	samples       int
}

func NewDissipation() *Dissipation {
	return &Dissipation{name: "dissipation"}
}

func (d *Dissipation) Name() string { return d.name }

func (d *Dissipation) Observe(s *sph.Solver, t float64) {
	sum := Summarize(s.Particles(), s.Params().Gravity)
	energy := sum.KineticEnergy + sum.PotentialEnergy

	if d.samples == 0 {
		d.initialEnergy = energy
	}
	d.samples++

	if d.initialEnergy != 0 {
		loss := (d.initialEnergy - energy) / math.Abs(d.initialEnergy)
		d.maxLoss = math.Max(d.maxLoss, loss)
	}
}

func (d *Dissipation) Value() float64 {
	return d.maxLoss
}

func (d *Dissipation) Reset() {
	d.initialEnergy = 0
	d.maxLoss = 0
	d.samples = 0
}
