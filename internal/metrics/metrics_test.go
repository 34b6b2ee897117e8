package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/sph"
)

func solverWith(t *testing.T, ps ...sph.Particle) *sph.Solver {
	t.Helper()
	s, err := sph.NewWithParticles(sph.DefaultParams(), ps)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSummarize(t *testing.T) {
	ps := []sph.Particle{
		{Position: r2.Vec{X: 1, Y: 0.5}, Velocity: r2.Vec{X: 3, Y: 4}, Mass: 2, Density: 900, Pressure: 0},
		{Position: r2.Vec{X: 1, Y: 0}, Velocity: r2.Vec{}, Mass: 1, Density: 1100, Pressure: 200},
	}
	sum := Summarize(ps, -10)

	if math.Abs(sum.KineticEnergy-25) > 1e-12 {
		t.Errorf("kinetic energy = %g, want 25", sum.KineticEnergy)
	}
	if math.Abs(sum.PotentialEnergy-10) > 1e-12 {
		t.Errorf("potential energy = %g, want 10", sum.PotentialEnergy)
	}
	if sum.MeanDensity != 1000 {
		t.Errorf("mean density = %g, want 1000", sum.MeanDensity)
	}
	if sum.MaxDensity != 1100 || sum.MaxPressure != 200 {
		t.Errorf("max density/pressure = %g/%g", sum.MaxDensity, sum.MaxPressure)
	}
	if sum.MaxSpeed != 5 {
		t.Errorf("max speed = %g, want 5", sum.MaxSpeed)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := Summarize(nil, -9.8); got != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", got)
	}
}

func TestKineticEnergy(t *testing.T) {
	ps := []sph.Particle{{Velocity: r2.Vec{X: 2}, Mass: 0.5}}
	if got := KineticEnergy(ps); got != 1 {
		t.Errorf("got %g, want 1", got)
	}
}

func TestCentroid(t *testing.T) {
	ps := []sph.Particle{
		{Position: r2.Vec{X: 0, Y: 0}, Mass: 1},
		{Position: r2.Vec{X: 3, Y: 0}, Mass: 2},
	}
	c := Centroid(ps)
	if c.X != 2 || c.Y != 0 {
		t.Errorf("centroid = %v, want (2, 0)", c)
	}
	if Centroid(nil) != (r2.Vec{}) {
		t.Error("empty centroid should be zero")
	}
}

func TestEnergyReset(t *testing.T) {
	s := solverWith(t, sph.Particle{Position: r2.Vec{X: 1, Y: 0.5}, Velocity: r2.Vec{X: 1}, Mass: 1})
	m := NewEnergy()

	m.Observe(s, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEnergyAverages(t *testing.T) {
	s := solverWith(t, sph.Particle{Position: r2.Vec{X: 1, Y: 0}, Velocity: r2.Vec{X: 2}, Mass: 1})
	m := NewEnergy()
	m.Observe(s, 0)
	m.Observe(s, 1)
	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("got %g, want 2", m.Value())
	}
}

func TestDissipationGrowsAsParticlesFall(t *testing.T) {
	p := sph.DefaultParams()
	p.ParticlesPerSide = 6
	p.Viscosity = 200
	s := sph.MustNew(p)
	d := NewDissipation()

	d.Observe(s, 0)
	if d.Value() != 0 {
		t.Fatalf("first observation should be zero, got %g", d.Value())
	}
	for i := 0; i < 500; i++ {
		s.Step(0.0001)
	}
	d.Observe(s, 0.05)
	// free fall converts potential to kinetic energy; viscosity only removes
	if d.Value() < 0 {
		t.Errorf("dissipation should never be negative, got %g", d.Value())
	}
	d.Reset()
	if d.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestContainment(t *testing.T) {
	inside := solverWith(t, sph.Particle{Position: r2.Vec{X: 1, Y: 0.5}, Mass: 1})
	outside := solverWith(t, sph.Particle{Position: r2.Vec{X: -1, Y: 0.5}, Mass: 1})
	fast := solverWith(t, sph.Particle{Position: r2.Vec{X: 1, Y: 0.5}, Velocity: r2.Vec{X: 100}, Mass: 1})

	c := NewContainment(10)
	if c.Value() != 1 {
		t.Errorf("no samples should report 1, got %g", c.Value())
	}

	c.Observe(inside, 0)
	c.Observe(outside, 0)
	c.Observe(fast, 0)
	c.Observe(inside, 0)
	if c.Value() != 0.5 {
		t.Errorf("got %g, want 0.5", c.Value())
	}

	c.Reset()
	if c.Value() != 1 {
		t.Error("expected 1 after reset")
	}
}

func TestWallTravel(t *testing.T) {
	s := solverWith(t, sph.Particle{Position: r2.Vec{X: 1, Y: 0.5}, Mass: 1})
	w := NewWallTravel()

	for _, x := range []float64{0.1, 0.3, 0.2, 0.2} {
		s.SetWallLeft(x)
		w.Observe(s, 0)
	}
	if math.Abs(w.Value()-0.3) > 1e-12 {
		t.Errorf("got %g, want 0.3", w.Value())
	}
}

func TestCompression(t *testing.T) {
	s := solverWith(t,
		sph.Particle{Position: r2.Vec{X: 1, Y: 0.5}, Mass: 1, Density: 1050},
		sph.Particle{Position: r2.Vec{X: 1.5, Y: 0.5}, Mass: 1, Density: 990},
	)
	c := NewCompression()
	c.Observe(s, 0)
	if math.Abs(c.Value()-0.05) > 1e-12 {
		t.Errorf("got %g, want 0.05", c.Value())
	}
}
