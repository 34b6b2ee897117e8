package gui

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/sphsim/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := NewApp(config.GetPreset("small"))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return a
}

func TestAppStartsPaused(t *testing.T) {
	g := NewWithT(t)
	a := newTestApp(t)
	g.Expect(a.Running).To(BeFalse())

	g.Expect(a.Update(Input{})).To(Succeed())
	g.Expect(a.Steps).To(BeZero())

	g.Expect(a.Update(Input{TogglePause: true})).To(Succeed())
	g.Expect(a.Running).To(BeTrue())
	g.Expect(a.Steps).To(Equal(DefaultStepsPerFrame))
	g.Expect(a.KineticEnergy).To(BeNumerically(">", 0))
}

func TestAppDragMovesWall(t *testing.T) {
	g := NewWithT(t)
	a := newTestApp(t)

	g.Expect(a.Update(Input{PointerX: 0.5, Press: true, Held: true})).To(Succeed())
	g.Expect(a.Update(Input{PointerX: 0.8, Held: true})).To(Succeed())
	g.Expect(a.Solver.WallLeft()).To(BeNumerically("~", 0.3, 1e-12))
	g.Expect(a.Ctrl).To(BeNil())

	// drags left of the start are not clamped by the drag, only at zero
	g.Expect(a.Update(Input{PointerX: 0.1, Held: true})).To(Succeed())
	g.Expect(a.Solver.WallLeft()).To(BeZero())

	g.Expect(a.Update(Input{PointerX: 0.1, Release: true})).To(Succeed())
	g.Expect(a.Update(Input{PointerX: 1.9, Held: true})).To(Succeed())
	g.Expect(a.Solver.WallLeft()).To(BeZero())
}

func TestAppDragStopsAtRightEdge(t *testing.T) {
	g := NewWithT(t)
	a := newTestApp(t)
	a.Solver.SetWallLeft(1.5)

	// a full 2.0 drag from wall 1.5 would put the wall at 3.5
	g.Expect(a.Update(Input{PointerX: 0, Press: true, Held: true})).To(Succeed())
	g.Expect(a.Update(Input{PointerX: 2, Held: true})).To(Succeed())
	g.Expect(a.Solver.WallLeft()).To(Equal(a.Cfg.SolverParams().MaxWall()))
}

func TestAppResetAndSpeed(t *testing.T) {
	g := NewWithT(t)
	a := newTestApp(t)
	g.Expect(a.Update(Input{TogglePause: true, Faster: true})).To(Succeed())
	g.Expect(a.Steps).To(Equal(2 * DefaultStepsPerFrame))

	g.Expect(a.Update(Input{Reset: true, Slower: true})).To(Succeed())
	// reset happens before stepping, so this frame's steps count from zero
	g.Expect(a.Steps).To(Equal(DefaultStepsPerFrame))
	g.Expect(a.Ctrl).NotTo(BeNil())
}

func TestToScreenFlipsY(t *testing.T) {
	a := newTestApp(t)
	v := a.ToScreen(1, 0)
	if v.X != Scale || v.Y != float32(a.Cfg.Params.Height*Scale) {
		t.Errorf("ToScreen(1,0) = %v", v)
	}
	v = a.ToScreen(0, a.Cfg.Params.Height)
	if v.Y != 0 {
		t.Errorf("top edge maps to y=%v, want 0", v.Y)
	}
}
