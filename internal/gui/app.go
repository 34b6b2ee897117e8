package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/control"
	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/sph"
)

const (
	// Scale is pixels per world unit.
	Scale = 500

	DefaultStepsPerFrame = 20
	maxStepsPerFrame     = 400
	hudHeight            = 28
)

var (
	ColBg       = rl.NewColor(255, 255, 255, 255)
	ColParticle = rl.NewColor(255, 0, 0, 255)
	ColWall     = rl.NewColor(40, 40, 40, 255)
	ColText     = rl.NewColor(60, 60, 60, 255)
	ColPaused   = rl.NewColor(220, 140, 0, 255)
)

// Input is one frame of user input, already mapped to world units.
type Input struct {
	PointerX    float64
	Press       bool
	Held        bool
	Release     bool
	TogglePause bool
	Reset       bool
	Faster      bool
	Slower      bool
}

type App struct {
	Cfg           *config.Config
	Solver        *sph.Solver
	Ctrl          control.Controller
	Drag          *control.Drag
	Running       bool
	Time          float64
	Steps         int
	StepsPerFrame int
	KineticEnergy float64
}

// NewApp builds a paused app for cfg. Nothing here touches the window.
func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Cfg:           cfg,
		Drag:          control.NewDrag(control.DefaultMaxDrag),
		StepsPerFrame: DefaultStepsPerFrame,
	}
	if err := a.Reset(); err != nil {
		return nil, err
	}
	return a, nil
}

// Reset rebuilds the solver and the scripted wall controller.
func (a *App) Reset() error {
	s, err := a.Cfg.NewSolver()
	if err != nil {
		return err
	}
	ctrl, err := a.Cfg.Controller()
	if err != nil {
		return err
	}
	a.Solver, a.Ctrl = s, ctrl
	a.Drag.Release()
	a.Time, a.Steps, a.KineticEnergy = 0, 0, 0
	return nil
}

// Update applies one frame of input and, when running, advances the solver
// StepsPerFrame steps.
func (a *App) Update(in Input) error {
	if in.TogglePause {
		a.Running = !a.Running
	}
	if in.Reset {
		if err := a.Reset(); err != nil {
			return err
		}
	}
	if in.Faster {
		a.StepsPerFrame = min(a.StepsPerFrame*2, maxStepsPerFrame)
	}
	if in.Slower {
		a.StepsPerFrame = max(a.StepsPerFrame/2, 1)
	}

	switch {
	case in.Press:
		a.Drag.Press(in.PointerX, a.Solver.WallLeft())
	case in.Release:
		a.Drag.Release()
	case in.Held:
		if wall, ok := a.Drag.Move(in.PointerX); ok {
			// a hand-moved wall overrides the scripted one until reset
			a.Ctrl = nil
			a.Solver.SetWallLeft(wall)
		}
	}

	if !a.Running {
		return nil
	}
	dt := a.Cfg.Dt
	for i := 0; i < a.StepsPerFrame; i++ {
		if a.Ctrl != nil {
			a.Solver.SetWallLeft(a.Ctrl.Compute(a.Solver, a.Time))
		}
		a.Solver.Step(dt)
		a.Time += dt
		a.Steps++
	}
	a.KineticEnergy = metrics.KineticEnergy(a.Solver.Particles())
	return nil
}

func initWindow(cfg *config.Config) {
	w := int32(cfg.Params.Width * Scale)
	h := int32(cfg.Params.Height*Scale) + hudHeight
	rl.InitWindow(w, h, "smoothed particle hydrodynamics")
	rl.SetTargetFPS(60)
}

// pollInput reads raylib's input state for this frame.
func pollInput() Input {
	mouse := rl.GetMousePosition()
	return Input{
		PointerX:    float64(mouse.X) / Scale,
		Press:       rl.IsMouseButtonPressed(rl.MouseLeftButton),
		Held:        rl.IsMouseButtonDown(rl.MouseLeftButton),
		Release:     rl.IsMouseButtonReleased(rl.MouseLeftButton),
		TogglePause: rl.IsKeyReleased(rl.KeyP) || rl.IsKeyPressed(rl.KeySpace),
		Reset:       rl.IsKeyPressed(rl.KeyR),
		Faster:      rl.IsKeyPressed(rl.KeyUp),
		Slower:      rl.IsKeyPressed(rl.KeyDown),
	}
}

// Run opens a window for cfg and blocks until it is closed. The simulation
// starts paused; P toggles it.
func Run(cfg *config.Config) error {
	a, err := NewApp(cfg)
	if err != nil {
		return err
	}
	initWindow(cfg)
	defer rl.CloseWindow()
	return a.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return nil
		}
		if err := a.Update(pollInput()); err != nil {
			return err
		}
		a.Draw()
	}
	return nil
}
