package sph

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

var box = Bounds{Left: 0, Right: 2, Bottom: 0, Top: 1}

func TestIntegrateSemiImplicit(t *testing.T) {
	p := Particle{
		Position: r2.Vec{X: 1, Y: 0.5},
		Velocity: r2.Vec{X: 0.1},
		Force:    r2.Vec{X: 20, Y: -40},
		Mass:     1,
		Density:  10,
	}
	dt := 0.01
	p.Integrate(dt, box)

	wantV := r2.Vec{X: 0.1 + 2*dt, Y: -4 * dt}
	if math.Abs(p.Velocity.X-wantV.X) > 1e-12 || math.Abs(p.Velocity.Y-wantV.Y) > 1e-12 {
		t.Errorf("velocity = %v, want %v", p.Velocity, wantV)
	}
	// position uses the updated velocity
	wantX := r2.Vec{X: 1 + wantV.X*dt, Y: 0.5 + wantV.Y*dt}
	if math.Abs(p.Position.X-wantX.X) > 1e-12 || math.Abs(p.Position.Y-wantX.Y) > 1e-12 {
		t.Errorf("position = %v, want %v", p.Position, wantX)
	}
	if p.Force != (r2.Vec{}) {
		t.Errorf("force not cleared: %v", p.Force)
	}
}

func TestIntegrateZeroDensity(t *testing.T) {
	p := Particle{
		Position: r2.Vec{X: 1, Y: 0.5},
		Velocity: r2.Vec{X: 0.5},
		Force:    r2.Vec{Y: -1},
	}
	p.Integrate(0.1, box)

	if p.Velocity != (r2.Vec{X: 0.5}) {
		t.Errorf("velocity changed without density: %v", p.Velocity)
	}
	if math.IsNaN(p.Position.X) || math.IsNaN(p.Position.Y) {
		t.Fatal("position is NaN")
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name    string
		pos     r2.Vec
		vel     r2.Vec
		check   func(p Particle) bool
		wantVel r2.Vec
	}{
		{
			name:    "left",
			pos:     r2.Vec{X: 0.001, Y: 0.5},
			vel:     r2.Vec{X: -1},
			check:   func(p Particle) bool { return p.Position.X >= 0 },
			wantVel: r2.Vec{X: 0.75},
		},
		{
			name:    "right",
			pos:     r2.Vec{X: 1.999, Y: 0.5},
			vel:     r2.Vec{X: 1},
			check:   func(p Particle) bool { return p.Position.X <= 2 },
			wantVel: r2.Vec{X: -0.75},
		},
		{
			name:    "bottom",
			pos:     r2.Vec{X: 1, Y: 0.001},
			vel:     r2.Vec{Y: -1},
			check:   func(p Particle) bool { return p.Position.Y >= 0 },
			wantVel: r2.Vec{Y: 0.75},
		},
		{
			name:    "top",
			pos:     r2.Vec{X: 1, Y: 0.999},
			vel:     r2.Vec{Y: 1},
			check:   func(p Particle) bool { return p.Position.Y <= 1 },
			wantVel: r2.Vec{Y: -0.75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{Position: tt.pos, Velocity: tt.vel, Mass: 1}
			p.Integrate(0.01, box)
			if !tt.check(p) {
				t.Errorf("position %v outside box", p.Position)
			}
			if math.Abs(p.Velocity.X-tt.wantVel.X) > 1e-12 || math.Abs(p.Velocity.Y-tt.wantVel.Y) > 1e-12 {
				t.Errorf("velocity = %v, want %v", p.Velocity, tt.wantVel)
			}
		})
	}
}

func TestReflectMirrorsDampedOvershoot(t *testing.T) {
	// moves to x = -0.009, walks back to -0.00675, mirrors to 0.00675
	p := Particle{Position: r2.Vec{X: 0.001, Y: 0.5}, Velocity: r2.Vec{X: -1}}
	p.Integrate(0.01, box)
	if math.Abs(p.Position.X-0.00675) > 1e-12 {
		t.Errorf("x = %g, want 0.00675", p.Position.X)
	}
}

func TestReflectCouplesAxes(t *testing.T) {
	// the back-correction runs along the full velocity, so a floor bounce
	// also pulls x back
	p := Particle{Position: r2.Vec{X: 1, Y: 0.001}, Velocity: r2.Vec{X: 1, Y: -1}}
	p.Integrate(0.01, box)
	if math.Abs(p.Position.X-(1.01-0.25*0.009)) > 1e-12 {
		t.Errorf("x = %g, want %g", p.Position.X, 1.01-0.25*0.009)
	}
}

func TestReflectSkipsZeroVelocity(t *testing.T) {
	p := Particle{Position: r2.Vec{X: -0.5, Y: 0.5}}
	p.Integrate(0.01, box)
	if p.Position.X != -0.5 || p.Velocity != (r2.Vec{}) {
		t.Errorf("particle with zero velocity moved: %+v", p)
	}
}

func TestBoundsContains(t *testing.T) {
	if !box.Contains(r2.Vec{X: 0, Y: 1}) {
		t.Error("edges should be inside")
	}
	if box.Contains(r2.Vec{X: -1e-9, Y: 0.5}) {
		t.Error("point left of the wall should be outside")
	}
}

func TestClampWall(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside", 0.3, 0.3},
		{"negative", -0.5, 0},
		{"at width", p.Width, p.Width - p.KernelRange},
		{"past width", 2.5, p.Width - p.KernelRange},
		{"nan", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ClampWall(tt.in); got != tt.want {
				t.Errorf("ClampWall(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
