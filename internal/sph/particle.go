package sph

import "gonum.org/v1/gonum/spatial/r2"

// Particle is one fluid parcel. Density and Pressure are recomputed every
// step; Force is the accumulator consumed by Integrate.
type Particle struct {
	Position r2.Vec
	Velocity r2.Vec
	Force    r2.Vec
	Mass     float64
	Density  float64
	Pressure float64
}

// NewParticle returns a particle at rest.
func NewParticle(pos r2.Vec, mass float64) Particle {
	return Particle{Position: pos, Mass: mass}
}

// Bounds is the axis-aligned box particles are reflected into.
type Bounds struct {
	Left, Right float64
	Bottom, Top float64
}

// Contains reports whether pos lies inside b, edges included.
func (b Bounds) Contains(pos r2.Vec) bool {
	return pos.X >= b.Left && pos.X <= b.Right && pos.Y >= b.Bottom && pos.Y <= b.Top
}

// Integrate advances the particle by dt with semi-implicit Euler, clears the
// force accumulator and reflects the particle back into b.
func (p *Particle) Integrate(dt float64, b Bounds) {
	if p.Density != 0 {
		acc := r2.Vec{X: p.Force.X / p.Density, Y: p.Force.Y / p.Density}
		p.Velocity = r2.Add(p.Velocity, r2.Scale(dt, acc))
	}
	p.Position = r2.Add(p.Position, r2.Scale(dt, p.Velocity))
	p.Force = r2.Vec{}

	// one reflection per axis, left/right then bottom/top
	switch {
	case p.Position.X < b.Left:
		p.reflectX(b.Left)
	case p.Position.X > b.Right:
		p.reflectX(b.Right)
	}
	switch {
	case p.Position.Y < b.Bottom:
		p.reflectY(b.Bottom)
	case p.Position.Y > b.Top:
		p.reflectY(b.Top)
	}
}

// reflectX walks the particle back along its full velocity to the damped
// crossing point, mirrors x about the barrier and damps the velocity.
func (p *Particle) reflectX(barrier float64) {
	if p.Velocity.X == 0 {
		return
	}
	bounce := (p.Position.X - barrier) / p.Velocity.X
	p.Position = r2.Add(p.Position, r2.Scale((Damping-1)*bounce, p.Velocity))
	p.Position.X = 2*barrier - p.Position.X
	p.Velocity.X = -p.Velocity.X
	p.Velocity = r2.Scale(Damping, p.Velocity)
}

func (p *Particle) reflectY(barrier float64) {
	if p.Velocity.Y == 0 {
		return
	}
	bounce := (p.Position.Y - barrier) / p.Velocity.Y
	p.Position = r2.Add(p.Position, r2.Scale((Damping-1)*bounce, p.Velocity))
	p.Position.Y = 2*barrier - p.Position.Y
	p.Velocity.Y = -p.Velocity.Y
	p.Velocity = r2.Scale(Damping, p.Velocity)
}
