// Package sph implements a two-dimensional smoothed-particle-hydrodynamics
// solver.
//
// The solver owns a fixed set of [Particle] values, a uniform [Grid] used
// as the neighbour index and a movable left [Wall]. Each call to
// [Solver.Step] runs the pipeline in order:
//
//   - neighbour search over the 3x3 block of grid cells
//   - density: ρi = Σ mj W(xi − xj)
//   - pressure: pi = max(0, k(ρi − ρ0))
//   - forces: pressure, viscosity and gravity
//   - semi-implicit Euler integration with damped boundary reflection
//   - grid rebuild
//
// Coordinates are y-up: the floor is y = 0, the ceiling y = Params.Height,
// and gravity is negative.
//
// # Example
//
//	s, err := sph.New(sph.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 1000; i++ {
//	    s.Step(0.0001)
//	}
//	for _, p := range s.Particles() {
//	    fmt.Println(p.Position.X, p.Position.Y)
//	}
//
// # Thread Safety
//
// Solver instances are NOT thread-safe. Step must not interleave with
// reads of Particles or writes to the wall; sim.Driver provides the locking
// for concurrent front ends. Setting Params.Workers above one parallelises
// each stage internally without changing the result.
package sph
