package sph

import (
	"fmt"
	"math"
)

// Damping is the fraction of velocity kept after a boundary reflection.
const Damping = 0.75

// Params are the constants of a simulation. They are fixed for the
// lifetime of a Solver.
type Params struct {
	KernelRange float64 // h, also the grid cell side
	RestDensity float64 // ρ0
	Stiffness   float64 // k
	Viscosity   float64 // μ
	Gravity     float64 // vertical acceleration, negative pulls toward y = 0

	Width  float64 // right boundary
	Height float64 // top boundary

	// Initial lattice.
	ParticlesPerSide int
	Spacing          float64
	Mass             float64
	SeedLeft         float64 // x of the first column
	SeedTop          float64 // distance of the first row below Height

	// Workers > 1 splits every per-particle stage across goroutines.
	Workers int
}

// DefaultParams returns a dam-break setup: a 30x30 block of water released
// from the upper middle of a 2x1 tank.
func DefaultParams() Params {
	return Params{
		KernelRange:      0.04,
		RestDensity:      1000,
		Stiffness:        2000,
		Viscosity:        50,
		Gravity:          -9.8,
		Width:            2.0,
		Height:           1.0,
		ParticlesPerSide: 30,
		Spacing:          0.02,
		Mass:             0.0128,
		SeedLeft:         0.5,
		SeedTop:          0.1,
		Workers:          1,
	}
}

// Validate reports the first constant that is out of range. The returned
// error wraps ErrInvalidParams.
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"kernel range", p.KernelRange},
		{"rest density", p.RestDensity},
		{"width", p.Width},
		{"height", p.Height},
		{"mass", p.Mass},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %g", ErrInvalidParams, f.name, f.v)
		}
	}
	if !(p.Stiffness >= 0) || math.IsInf(p.Stiffness, 0) {
		return fmt.Errorf("%w: stiffness must be non-negative, got %g", ErrInvalidParams, p.Stiffness)
	}
	if !(p.Viscosity >= 0) || math.IsInf(p.Viscosity, 0) {
		return fmt.Errorf("%w: viscosity must be non-negative, got %g", ErrInvalidParams, p.Viscosity)
	}
	if math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0) {
		return fmt.Errorf("%w: gravity must be finite, got %g", ErrInvalidParams, p.Gravity)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidParams, p.Workers)
	}
	return nil
}

// validateLattice checks the constants only New needs.
func (p Params) validateLattice() error {
	if p.ParticlesPerSide < 1 {
		return fmt.Errorf("%w: particles per side must be >= 1, got %d", ErrInvalidParams, p.ParticlesPerSide)
	}
	if !(p.Spacing > 0) || math.IsInf(p.Spacing, 0) {
		return fmt.Errorf("%w: spacing must be positive and finite, got %g", ErrInvalidParams, p.Spacing)
	}
	return nil
}

// MaxWall is the rightmost wall position. One kernel range of tank is
// always left open.
func (p Params) MaxWall() float64 {
	return max(p.Width-p.KernelRange, 0)
}

// ClampWall limits a wall position to [0, MaxWall].
func (p Params) ClampWall(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return min(max(x, 0), p.MaxWall())
}

// Bounds returns the reflecting box for the given left wall position.
func (p Params) Bounds(wallLeft float64) Bounds {
	return Bounds{Left: wallLeft, Right: p.Width, Bottom: 0, Top: p.Height}
}
