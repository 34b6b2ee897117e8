package sph

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/compute"
)

// minChunk is the smallest particle range handed to a worker.
const minChunk = 64

// Wall is the movable left boundary. Controllers hold the handle and write
// Left between steps.
type Wall struct {
	Left float64
}

// Solver advances a fixed set of particles through the SPH pipeline.
type Solver struct {
	params    Params
	particles []Particle
	neighbors [][]int
	grid      *Grid
	wall      *Wall
}

// New seeds a ParticlesPerSide x ParticlesPerSide lattice starting at
// (SeedLeft, Height-SeedTop) and growing right and down.
func New(p Params) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.validateLattice(); err != nil {
		return nil, err
	}

	n := p.ParticlesPerSide
	particles := make([]Particle, 0, n*n)
	top := p.Height - p.SeedTop
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pos := r2.Vec{
				X: p.SeedLeft + float64(i)*p.Spacing,
				Y: top - float64(j)*p.Spacing,
			}
			particles = append(particles, NewParticle(pos, p.Mass))
		}
	}
	return newSolver(p, particles), nil
}

// MustNew is New that panics on invalid params.
func MustNew(p Params) *Solver {
	s, err := New(p)
	if err != nil {
		panic(err)
	}
	return s
}

// NewWithParticles builds a solver over a caller-supplied particle set.
// The lattice fields of p are ignored. The slice is copied.
func NewWithParticles(p Params, particles []Particle) (*Solver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return newSolver(p, append([]Particle(nil), particles...)), nil
}

func newSolver(p Params, particles []Particle) *Solver {
	s := &Solver{
		params:    p,
		particles: particles,
		neighbors: make([][]int, len(particles)),
		grid:      NewGrid(p.KernelRange),
		wall:      &Wall{},
	}
	s.grid.Rebuild(s.particles)
	return s
}

// Step advances the simulation by dt. Every stage completes for all
// particles before the next one starts.
func (s *Solver) Step(dt float64) {
	s.each(s.findNeighbors)
	s.each(s.computeDensity)
	s.each(s.computePressure)
	s.each(s.computeForces)
	bounds := s.Bounds()
	s.each(func(start, end int) {
		for i := start; i < end; i++ {
			s.particles[i].Integrate(dt, bounds)
		}
	})
	s.grid.Rebuild(s.particles)
}

func (s *Solver) each(fn func(start, end int)) {
	compute.ParallelFor(len(s.particles), s.params.Workers, minChunk, fn)
}

func (s *Solver) findNeighbors(start, end int) {
	h2 := s.params.KernelRange * s.params.KernelRange
	var candidates [][]int
	for i := start; i < end; i++ {
		pos := s.particles[i].Position
		list := s.neighbors[i][:0]
		candidates = s.grid.AppendCandidates(candidates[:0], pos)
		for _, bucket := range candidates {
			for _, j := range bucket {
				if r2.Norm2(r2.Sub(pos, s.particles[j].Position)) <= h2 {
					list = append(list, j)
				}
			}
		}
		s.neighbors[i] = list
	}
}

func (s *Solver) computeDensity(start, end int) {
	h := s.params.KernelRange
	for i := start; i < end; i++ {
		pi := &s.particles[i]
		rho := 0.0
		for _, j := range s.neighbors[i] {
			pj := &s.particles[j]
			rho += pj.Mass * Kernel(r2.Sub(pi.Position, pj.Position), h)
		}
		pi.Density = rho
	}
}

func (s *Solver) computePressure(start, end int) {
	k, rho0 := s.params.Stiffness, s.params.RestDensity
	for i := start; i < end; i++ {
		pi := &s.particles[i]
		pi.Pressure = max(0, k*(pi.Density-rho0))
	}
}

func (s *Solver) computeForces(start, end int) {
	h := s.params.KernelRange
	for i := start; i < end; i++ {
		pi := &s.particles[i]
		var pressure, viscosity r2.Vec
		for _, j := range s.neighbors[i] {
			pj := &s.particles[j]
			if pj.Density == 0 {
				continue
			}
			x := r2.Sub(pi.Position, pj.Position)
			inv := 1 / pj.Density
			pressure = r2.Add(pressure,
				r2.Scale(pj.Mass*(pi.Pressure+pj.Pressure)/2*inv, GradKernel(x, h)))
			viscosity = r2.Add(viscosity,
				r2.Scale(pj.Mass*inv*LaplaceKernel(x, h), r2.Sub(pj.Velocity, pi.Velocity)))
		}
		gravity := r2.Vec{Y: pi.Density * s.params.Gravity}
		pi.Force = r2.Add(r2.Add(r2.Scale(-1, pressure), r2.Scale(s.params.Viscosity, viscosity)), gravity)
	}
}

// Particles returns the particle set as of the last step. Callers must not
// modify it.
func (s *Solver) Particles() []Particle { return s.particles }

// Snapshot copies the particles into dst, reusing its storage.
func (s *Solver) Snapshot(dst []Particle) []Particle {
	return append(dst[:0], s.particles...)
}

// Len returns the particle count.
func (s *Solver) Len() int { return len(s.particles) }

// Neighbors returns the neighbour list of particle i from the last step.
// It includes i itself.
func (s *Solver) Neighbors(i int) []int { return s.neighbors[i] }

// Grid returns the spatial index.
func (s *Solver) Grid() *Grid { return s.grid }

// Params returns the constants the solver was built with.
func (s *Solver) Params() Params { return s.params }

// Wall returns the handle controllers use to move the left boundary.
// Values written through it are clamped when the box is built.
func (s *Solver) Wall() *Wall { return s.wall }

// WallLeft returns the left wall position.
func (s *Solver) WallLeft() float64 { return s.wall.Left }

// SetWallLeft moves the left wall, clamped to [0, Params.MaxWall]. It takes
// effect at the next Step.
func (s *Solver) SetWallLeft(x float64) { s.wall.Left = s.params.ClampWall(x) }

// Bounds returns the current reflecting box.
func (s *Solver) Bounds() Bounds { return s.params.Bounds(s.params.ClampWall(s.wall.Left)) }
