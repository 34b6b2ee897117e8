package sim

import (
	"sync"

	"github.com/san-kum/sphsim/internal/sph"
)

// ParticlePool recycles snapshot buffers for front ends that copy the
// particle set every frame.
type ParticlePool struct {
	pool sync.Pool
}

func NewParticlePool(capacity int) *ParticlePool {
	return &ParticlePool{
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]sph.Particle, 0, capacity)
				return &buf
			},
		},
	}
}

func (p *ParticlePool) Get() []sph.Particle {
	return (*p.pool.Get().(*[]sph.Particle))[:0]
}

func (p *ParticlePool) Put(buf []sph.Particle) {
	buf = buf[:0]
	p.pool.Put(&buf)
}
