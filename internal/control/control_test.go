package control

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/sph"
)

func TestHold(t *testing.T) {
	g := NewWithT(t)
	h := NewHold(0.3)
	g.Expect(h.Compute(nil, 0)).To(Equal(0.3))
	g.Expect(h.Compute(nil, 100)).To(Equal(0.3))
}

func TestSchedule(t *testing.T) {
	s := NewSchedule([]Keyframe{
		{T: 1, Left: 0.2},
		{T: 0, Left: 0},
		{T: 2, Left: 0.2},
		{T: 3, Left: 0},
	})

	tests := []struct {
		t    float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.1},
		{1, 0.2},
		{1.5, 0.2},
		{2.5, 0.1},
		{3, 0},
		{10, 0},
	}

	for _, tt := range tests {
		if got := s.At(tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%g) = %g, want %g", tt.t, got, tt.want)
		}
	}
}

func TestScheduleEmpty(t *testing.T) {
	if got := NewSchedule(nil).At(1); got != 0 {
		t.Errorf("empty schedule = %g, want 0", got)
	}
}

func TestOscillator(t *testing.T) {
	g := NewWithT(t)
	o := NewOscillator(0.1, 0.05, 2)

	g.Expect(o.Compute(nil, 0)).To(BeNumerically("~", 0.1, 1e-12))
	g.Expect(o.Compute(nil, 0.5)).To(BeNumerically("~", 0.15, 1e-12))
	g.Expect(o.Compute(nil, 1.5)).To(BeNumerically("~", 0.05, 1e-12))

	deep := NewOscillator(0, 0.1, 1)
	g.Expect(deep.Compute(nil, 0.75)).To(BeZero())
}

func TestOscillatorStaysInTank(t *testing.T) {
	g := NewWithT(t)
	p := sph.DefaultParams()
	p.ParticlesPerSide = 2
	s := sph.MustNew(p)

	wide := NewOscillator(1.5, 1, 1)
	g.Expect(wide.Compute(s, 0.25)).To(Equal(p.MaxWall()))
	g.Expect(wide.Compute(s, 0.75)).To(BeNumerically("~", 0.5, 1e-12))
}

func TestPIDPushesWallTowardCompression(t *testing.T) {
	g := NewWithT(t)
	p := sph.DefaultParams()
	s, err := sph.NewWithParticles(p, []sph.Particle{sph.NewParticle(r2.Vec{X: 1, Y: 0.5}, p.Mass)})
	g.Expect(err).NotTo(HaveOccurred())
	s.Step(0.0001)

	pid := NewPID(1, 0, 0, 1200)
	g.Expect(pid.Compute(s, 0)).To(Equal(0.0))
	next := pid.Compute(s, 0.01)
	g.Expect(next).To(BeNumerically(">", 0))
	g.Expect(next).To(BeNumerically("<=", p.Width/2))

	pid.Reset()
	g.Expect(pid.Compute(s, 0.02)).To(Equal(s.WallLeft()))
}

func TestPIDClampsAtZero(t *testing.T) {
	g := NewWithT(t)
	p := sph.DefaultParams()
	p.ParticlesPerSide = 4
	s := sph.MustNew(p)
	s.Step(0.0001)

	// target far below any density: error is negative, wall wants to go left
	pid := NewPID(10, 0, 0, 1)
	pid.Compute(s, 0)
	g.Expect(pid.Compute(s, 0.1)).To(BeZero())
}

func TestDrag(t *testing.T) {
	g := NewWithT(t)
	d := NewDrag(DefaultMaxDrag)

	_, ok := d.Move(1)
	g.Expect(ok).To(BeFalse())

	d.Press(0.5, 0.1)
	g.Expect(d.Active()).To(BeTrue())

	wall, ok := d.Move(0.8)
	g.Expect(ok).To(BeTrue())
	g.Expect(wall).To(BeNumerically("~", 0.4, 1e-12))

	wall, _ = d.Move(10)
	g.Expect(wall).To(BeNumerically("~", 0.1+DefaultMaxDrag, 1e-12))

	// no lower cap
	wall, _ = d.Move(0.2)
	g.Expect(wall).To(BeNumerically("~", -0.2, 1e-12))

	d.Release()
	g.Expect(d.Active()).To(BeFalse())
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{"default is hold", Spec{Left: 0.2}, false},
		{"hold", Spec{Kind: "hold"}, false},
		{"schedule", Spec{Kind: "schedule", Keyframes: []Keyframe{{T: 0, Left: 0.1}}}, false},
		{"schedule without frames", Spec{Kind: "schedule"}, true},
		{"oscillator", Spec{Kind: "oscillator", Left: 0.1, Amplitude: 0.05, Period: 1}, false},
		{"oscillator zero period", Spec{Kind: "oscillator"}, true},
		{"pid", Spec{Kind: "pid", Target: 1100, Kp: 1}, false},
		{"pid without target", Spec{Kind: "pid"}, true},
		{"unknown", Spec{Kind: "lqr"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Build(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c == nil {
				t.Fatal("nil controller")
			}
		})
	}
}

func TestBuildUnknownIsSentinel(t *testing.T) {
	_, err := Build(Spec{Kind: "bogus"})
	if !errors.Is(err, ErrUnknownController) {
		t.Errorf("got %v, want ErrUnknownController", err)
	}
}

func TestKinds(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Kinds()).To(Equal([]string{"hold", "oscillator", "pid", "schedule"}))
}
