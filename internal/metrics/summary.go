package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/sph"
)

// Summary is a one-pass digest of a particle set.
type Summary struct {
	KineticEnergy   float64
	PotentialEnergy float64
	MeanDensity     float64
	MaxDensity      float64
	MaxPressure     float64
	MaxSpeed        float64
}

// Summarize reduces a particle set. Potential energy is measured from the
// floor against gravity g.
func Summarize(ps []sph.Particle, g float64) Summary {
	if len(ps) == 0 {
		return Summary{}
	}
	ke := make([]float64, len(ps))
	pe := make([]float64, len(ps))
	rho := make([]float64, len(ps))
	press := make([]float64, len(ps))
	speed := make([]float64, len(ps))
	for i, p := range ps {
		v2 := r2.Norm2(p.Velocity)
		ke[i] = 0.5 * p.Mass * v2
		pe[i] = -p.Mass * g * p.Position.Y
		rho[i] = p.Density
		press[i] = p.Pressure
		speed[i] = r2.Norm(p.Velocity)
	}
	return Summary{
		KineticEnergy:   floats.Sum(ke),
		PotentialEnergy: floats.Sum(pe),
		MeanDensity:     floats.Sum(rho) / float64(len(ps)),
		MaxDensity:      floats.Max(rho),
		MaxPressure:     floats.Max(press),
		MaxSpeed:        floats.Max(speed),
	}
}

// KineticEnergy is Σ ½ m |v|².
func KineticEnergy(ps []sph.Particle) float64 {
	ke := 0.0
	for _, p := range ps {
		ke += 0.5 * p.Mass * r2.Norm2(p.Velocity)
	}
	return ke
}

// Centroid is the mass-weighted centre of the particle set.
func Centroid(ps []sph.Particle) r2.Vec {
	var sum r2.Vec
	mass := 0.0
	for _, p := range ps {
		sum = r2.Add(sum, r2.Scale(p.Mass, p.Position))
		mass += p.Mass
	}
	if mass == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/mass, sum)
}
