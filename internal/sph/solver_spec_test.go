package sph_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/sph"
)

const dt = 0.0001

// block returns an n x n lattice with its lower-left particle at origin.
func block(p sph.Params, n int, origin r2.Vec) []sph.Particle {
	ps := make([]sph.Particle, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			pos := r2.Vec{X: origin.X + float64(i)*p.Spacing, Y: origin.Y + float64(j)*p.Spacing}
			ps = append(ps, sph.NewParticle(pos, p.Mass))
		}
	}
	return ps
}

var _ = Describe("Solver", func() {
	var params sph.Params

	BeforeEach(func() {
		params = sph.DefaultParams()
	})

	Describe("New", func() {
		It("seeds an N x N lattice near the top of the domain", func() {
			params.ParticlesPerSide = 5
			s, err := sph.New(params)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Len()).To(Equal(25))

			first := s.Particles()[0]
			Expect(first.Position.X).To(Equal(params.SeedLeft))
			Expect(first.Position.Y).To(BeNumerically("~", params.Height-params.SeedTop, 1e-12))
			for _, p := range s.Particles() {
				Expect(p.Velocity).To(Equal(r2.Vec{}))
				Expect(p.Mass).To(Equal(params.Mass))
				Expect(p.Density).To(BeZero())
			}
			Expect(s.WallLeft()).To(BeZero())
			Expect(s.Grid().Len()).To(BeNumerically(">", 0))
		})

		DescribeTable("rejects invalid constants",
			func(mutate func(*sph.Params)) {
				mutate(&params)
				_, err := sph.New(params)
				Expect(errors.Is(err, sph.ErrInvalidParams)).To(BeTrue())
				Expect(err.Error()).To(HavePrefix("sph:"))
			},
			Entry("zero kernel range", func(p *sph.Params) { p.KernelRange = 0 }),
			Entry("negative mass", func(p *sph.Params) { p.Mass = -1 }),
			Entry("zero rest density", func(p *sph.Params) { p.RestDensity = 0 }),
			Entry("NaN width", func(p *sph.Params) { p.Width = math.NaN() }),
			Entry("negative viscosity", func(p *sph.Params) { p.Viscosity = -1 }),
			Entry("empty lattice", func(p *sph.Params) { p.ParticlesPerSide = 0 }),
			Entry("zero spacing", func(p *sph.Params) { p.Spacing = 0 }),
		)

		It("panics from MustNew on invalid constants", func() {
			params.Height = 0
			Expect(func() { sph.MustNew(params) }).To(Panic())
		})
	})

	Describe("an isolated particle", func() {
		It("falls freely under gravity", func() {
			s, err := sph.NewWithParticles(params, []sph.Particle{
				sph.NewParticle(r2.Vec{X: 1, Y: 0.5}, params.Mass),
			})
			Expect(err).NotTo(HaveOccurred())

			s.Step(dt)
			p := s.Particles()[0]

			want := params.Mass * 315 / (64 * math.Pi * math.Pow(params.KernelRange, 3))
			Expect(p.Density).To(BeNumerically("~", want, 1e-9))
			Expect(p.Pressure).To(BeZero())
			Expect(p.Velocity.X).To(BeZero())
			Expect(p.Velocity.Y).To(BeNumerically("~", params.Gravity*dt, 1e-12))
			Expect(p.Position.Y).To(BeNumerically("~", 0.5+params.Gravity*dt*dt, 1e-12))
			Expect(s.Neighbors(0)).To(Equal([]int{0}))
		})
	})

	Describe("neighbour search", func() {
		It("pairs particles h/2 apart and not 2h apart", func() {
			h := params.KernelRange
			s, err := sph.NewWithParticles(params, []sph.Particle{
				sph.NewParticle(r2.Vec{X: 1, Y: 0.5}, params.Mass),
				sph.NewParticle(r2.Vec{X: 1 + h/2, Y: 0.5}, params.Mass),
				sph.NewParticle(r2.Vec{X: 1 + h/2 + 2*h, Y: 0.5}, params.Mass),
			})
			Expect(err).NotTo(HaveOccurred())

			s.Step(dt)
			Expect(s.Neighbors(0)).To(ConsistOf(0, 1))
			Expect(s.Neighbors(1)).To(ConsistOf(0, 1))
			Expect(s.Neighbors(2)).To(ConsistOf(2))

			// the close pair has more density than the loner
			ps := s.Particles()
			Expect(ps[0].Density).To(BeNumerically(">", ps[2].Density))
		})
	})

	Describe("the left wall", func() {
		It("reflects a particle crossing it", func() {
			s, err := sph.NewWithParticles(params, []sph.Particle{{
				Position: r2.Vec{X: 0.3 - 1e-3, Y: 0.5},
				Velocity: r2.Vec{X: -1},
				Mass:     params.Mass,
			}})
			Expect(err).NotTo(HaveOccurred())
			s.Wall().Left = 0.3

			s.Step(dt)
			p := s.Particles()[0]
			Expect(p.Position.X).To(BeNumerically(">=", 0.3))
			Expect(p.Velocity.X).To(BeNumerically(">", 0))
			Expect(r2.Norm(p.Velocity)).To(BeNumerically("<", 1))
		})

		It("is shared through the handle", func() {
			s := sph.MustNew(params)
			w := s.Wall()
			w.Left = 0.2
			Expect(s.WallLeft()).To(Equal(0.2))
			s.SetWallLeft(0.4)
			Expect(w.Left).To(Equal(0.4))
			Expect(s.Bounds().Left).To(Equal(0.4))
		})

		It("never moves past the right boundary", func() {
			s, err := sph.NewWithParticles(params, []sph.Particle{{
				Position: r2.Vec{X: 1, Y: 0.5},
				Velocity: r2.Vec{X: 0.1},
				Mass:     params.Mass,
			}})
			Expect(err).NotTo(HaveOccurred())
			s.SetWallLeft(2.5)
			Expect(s.WallLeft()).To(Equal(params.MaxWall()))

			b := s.Bounds()
			Expect(b.Left).To(BeNumerically("<", b.Right))
			for i := 0; i < 6; i++ {
				s.Step(dt)
				x := s.Particles()[0].Position.X
				Expect(x).To(BeNumerically(">=", 0))
				Expect(x).To(BeNumerically("<=", params.Width))
			}
		})

		It("clamps values written through the handle when building the box", func() {
			s := sph.MustNew(params)
			s.Wall().Left = 9
			Expect(s.Bounds().Left).To(Equal(params.MaxWall()))
		})
	})

	Describe("boundaries", func() {
		It("keeps particles at or just past a boundary inside after a step", func() {
			w, ht := params.Width, params.Height
			wall := 0.25
			ps := []sph.Particle{
				{Position: r2.Vec{X: wall, Y: 0.5}, Velocity: r2.Vec{X: -0.5}},
				{Position: r2.Vec{X: wall - 1e-6, Y: 0.7}, Velocity: r2.Vec{X: -0.5}},
				{Position: r2.Vec{X: w, Y: 0.5}, Velocity: r2.Vec{X: 0.5}},
				{Position: r2.Vec{X: w + 1e-6, Y: 0.7}, Velocity: r2.Vec{X: 0.5}},
				{Position: r2.Vec{X: 0.8, Y: 0}, Velocity: r2.Vec{Y: -0.5}},
				{Position: r2.Vec{X: 1.0, Y: -1e-6}, Velocity: r2.Vec{Y: -0.5}},
				{Position: r2.Vec{X: 1.2, Y: ht}, Velocity: r2.Vec{Y: 0.5}},
				{Position: r2.Vec{X: 1.4, Y: ht + 1e-6}, Velocity: r2.Vec{Y: 0.5}},
			}
			for i := range ps {
				ps[i].Mass = params.Mass
			}
			s, err := sph.NewWithParticles(params, ps)
			Expect(err).NotTo(HaveOccurred())
			s.SetWallLeft(wall)

			s.Step(dt)
			b := s.Bounds()
			for i, p := range s.Particles() {
				Expect(b.Contains(p.Position)).To(BeTrue(), "particle %d at %v", i, p.Position)
			}
		})
	})

	Describe("a falling block", func() {
		var s *sph.Solver
		const n = 8

		BeforeEach(func() {
			var err error
			s, err = sph.NewWithParticles(params, block(params, n, r2.Vec{X: 0.9, Y: 0.01}))
			Expect(err).NotTo(HaveOccurred())
		})

		It("holds the per-step invariants", func() {
			for step := 0; step < 800; step++ {
				s.Step(dt)

				if step%100 != 99 {
					continue
				}
				Expect(s.Len()).To(Equal(n * n))
				b := s.Bounds()
				for i, p := range s.Particles() {
					Expect(p.Density).To(BeNumerically(">=", 0))
					Expect(p.Pressure).To(BeNumerically(">=", 0))
					Expect(b.Contains(p.Position)).To(BeTrue(), "particle %d left the box at %v", i, p.Position)
					Expect(s.Neighbors(i)).To(ContainElement(i))
					for _, j := range s.Neighbors(i) {
						Expect(s.Neighbors(j)).To(ContainElement(i))
					}
				}
			}
		})

		It("falls toward the floor", func() {
			meanY := func() float64 {
				sum := 0.0
				for _, p := range s.Particles() {
					sum += p.Position.Y
				}
				return sum / float64(s.Len())
			}
			start := meanY()
			for step := 0; step < 800; step++ {
				s.Step(dt)
			}
			Expect(meanY()).To(BeNumerically("<", start))
			for _, p := range s.Particles() {
				Expect(p.Position.Y).To(BeNumerically(">=", 0))
			}
		})

		It("keeps the grid consistent with positions", func() {
			s.Step(dt)
			g := s.Grid()
			for i, p := range s.Particles() {
				Expect(g.Cell(g.CellOf(p.Position))).To(ContainElement(i))
			}
		})
	})

	Describe("parallel stages", func() {
		It("matches the serial result exactly", func() {
			params.ParticlesPerSide = 16
			serial := sph.MustNew(params)
			params.Workers = 4
			parallel := sph.MustNew(params)

			for step := 0; step < 50; step++ {
				serial.Step(dt)
				parallel.Step(dt)
			}
			a, b := serial.Particles(), parallel.Particles()
			Expect(b).To(HaveLen(len(a)))
			for i := range a {
				Expect(b[i]).To(Equal(a[i]))
			}
		})
	})

	Describe("Snapshot", func() {
		It("returns a copy", func() {
			params.ParticlesPerSide = 3
			s := sph.MustNew(params)
			snap := s.Snapshot(nil)
			snap[0].Position.X = -10
			Expect(s.Particles()[0].Position.X).To(Equal(params.SeedLeft))
		})
	})
})
