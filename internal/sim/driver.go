package sim

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/sphsim/internal/sph"
)

// Frame is a consistent copy of the solver state between two steps.
type Frame struct {
	Step      int
	Time      float64
	WallLeft  float64
	Paused    bool
	Particles []sph.Particle
}

// Driver serialises access to a solver shared by a stepping goroutine and
// any number of readers. Step holds the write lock; snapshots hold the
// read lock, so readers never see a half-finished step.
type Driver struct {
	mu     sync.RWMutex
	solver *sph.Solver
	dt     float64
	step   int
	t      float64
	paused bool
	pool   *ParticlePool
}

func NewDriver(s *sph.Solver, dt float64) *Driver {
	return &Driver{
		solver: s,
		dt:     dt,
		pool:   NewParticlePool(s.Len()),
	}
}

// Tick advances n steps unless paused and reports whether it stepped.
func (d *Driver) Tick(n int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.paused {
		return false
	}
	for i := 0; i < n; i++ {
		d.solver.Step(d.dt)
		d.step++
		d.t += d.dt
	}
	return true
}

// Run ticks every interval until ctx is done.
func (d *Driver) Run(ctx context.Context, interval time.Duration, stepsPerTick int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.Tick(stepsPerTick)
		}
	}
}

// Snapshot copies the current state. Release the frame when done with it.
func (d *Driver) Snapshot() Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Frame{
		Step:      d.step,
		Time:      d.t,
		WallLeft:  d.solver.WallLeft(),
		Paused:    d.paused,
		Particles: d.solver.Snapshot(d.pool.Get()),
	}
}

// Release returns a frame's particle buffer to the pool.
func (d *Driver) Release(f Frame) {
	d.pool.Put(f.Particles)
}

// SetWallLeft moves the wall, clamped to the tank; the change takes effect
// at the next step.
func (d *Driver) SetWallLeft(x float64) {
	d.mu.Lock()
	d.solver.SetWallLeft(x)
	d.mu.Unlock()
}

func (d *Driver) SetPaused(p bool) {
	d.mu.Lock()
	d.paused = p
	d.mu.Unlock()
}

// TogglePause flips the pause flag and returns the new value.
func (d *Driver) TogglePause() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = !d.paused
	return d.paused
}

func (d *Driver) Paused() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.paused
}

// Bounds returns the domain box with the current wall.
func (d *Driver) Bounds() sph.Bounds {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.solver.Bounds()
}
