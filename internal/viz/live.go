package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/control"
	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/sph"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	// DefaultStepsPerFrame solver steps are taken per 60 Hz frame.
	DefaultStepsPerFrame = 20
	maxStepsPerFrame     = 400

	// wallNudge is how far one arrow key press moves the wall.
	wallNudge = 0.02

	// canvas origin inside the rendered view, from canvasStyle padding
	canvasCol = 2
	canvasRow = 1

	gifPath = "sphsim.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the terminal viewer. It owns the solver and steps it on every
// tick, so no locking is needed.
type Model struct {
	cfg           *config.Config
	solver        *sph.Solver
	ctrl          control.Controller
	drag          *control.Drag
	canvas        *Canvas
	view          Viewport
	t             float64
	steps         int
	stepsPerFrame int
	running       bool
	energyHistory []float64
	summary       metrics.Summary
	recording     bool
	frames        []*image.Paletted
	showHelp      bool
	status        string
}

// NewModel builds a viewer for cfg. The scripted wall controller from cfg
// drives the wall until the user moves it by hand.
func NewModel(cfg *config.Config) (Model, error) {
	m := Model{
		cfg:           cfg,
		drag:          control.NewDrag(control.DefaultMaxDrag),
		canvas:        NewCanvas(width, height),
		stepsPerFrame: DefaultStepsPerFrame,
		running:       true,
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	m.view = NewViewport(cfg.Params.Width, cfg.Params.Height, m.canvas)
	m.draw()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ", "p":
			m.running = !m.running
		case "r":
			if err := m.reset(); err != nil {
				m.status = err.Error()
			}
		case "left", "h":
			m.moveWall(m.solver.WallLeft() - wallNudge)
		case "right", "l":
			m.moveWall(m.solver.WallLeft() + wallNudge)
		case "+", "=":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxStepsPerFrame)
		case "-", "_":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerFrame)
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := m.view.CellToWorldX(msg.X - canvasCol)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.drag.Press(x, m.solver.WallLeft())
		}
	case tea.MouseActionMotion:
		if wall, ok := m.drag.Move(x); ok {
			m.moveWall(wall)
		}
	case tea.MouseActionRelease:
		m.drag.Release()
	}
}

// moveWall places the wall by hand and detaches the scripted controller.
func (m *Model) moveWall(x float64) {
	m.ctrl = nil
	m.solver.SetWallLeft(x)
}

func (m *Model) advance(n int) {
	dt := m.cfg.Dt
	for i := 0; i < n; i++ {
		if m.ctrl != nil {
			m.solver.SetWallLeft(m.ctrl.Compute(m.solver, m.t))
		}
		m.solver.Step(dt)
		m.t += dt
		m.steps++
	}
	m.summary = metrics.Summarize(m.solver.Particles(), m.cfg.Params.Gravity)
	m.energyHistory = append(m.energyHistory, m.summary.KineticEnergy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[len(m.energyHistory)-historyCapacity:]
	}
}

func (m *Model) reset() error {
	solver, err := m.cfg.NewSolver()
	if err != nil {
		return err
	}
	ctrl, err := m.cfg.Controller()
	if err != nil {
		return err
	}
	m.solver, m.ctrl = solver, ctrl
	m.drag.Release()
	m.t, m.steps = 0, 0
	m.energyHistory = nil
	m.summary = metrics.Summarize(solver.Particles(), m.cfg.Params.Gravity)
	m.status = ""
	return nil
}

// Solver exposes the simulated fluid.
func (m Model) Solver() *sph.Solver { return m.solver }

func (m Model) Running() bool { return m.running }

func (m Model) Time() float64 { return m.t }

func (m Model) Steps() int { return m.steps }

func (m *Model) draw() {
	m.canvas.Clear()
	dx, dy := m.canvas.Dots()

	// tank floor and right wall
	m.canvas.DrawLine(0, dy-1, dx-1, dy-1)
	m.canvas.DrawLine(dx-1, 0, dx-1, dy-1)

	wx, _ := m.view.ToDot(r2.Vec{X: m.solver.WallLeft()})
	m.canvas.DrawLine(wx, 0, wx, dy-1)

	for _, p := range m.solver.Particles() {
		m.canvas.Set(m.view.ToDot(p.Position))
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	fluid := lipgloss.NewStyle().Foreground(CurrentTheme.Fluid)
	canvasView := canvasStyle.Render(fluid.Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render(fmt.Sprintf("REC %d", len(m.frames)))
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.4fs", m.t))
	row("Step", fmt.Sprintf("%d (x%d)", m.steps, m.stepsPerFrame))
	row("Particles", fmt.Sprintf("%d", m.solver.Len()))
	row("Wall", fmt.Sprintf("%.3f", m.solver.WallLeft()))
	row("KE", fmt.Sprintf("%.4f", m.summary.KineticEnergy))
	row("Max ρ", fmt.Sprintf("%.1f", m.summary.MaxDensity))
	row("Max p", fmt.Sprintf("%.1f", m.summary.MaxPressure))
	row("Max |v|", fmt.Sprintf("%.3f", m.summary.MaxSpeed))
	switch {
	case m.ctrl == nil:
		row("Wall ctrl", "manual")
	case m.cfg.Wall.Kind == "":
		row("Wall ctrl", "hold")
	default:
		row("Wall ctrl", m.cfg.Wall.Kind)
	}
	if m.status != "" {
		s.WriteString("\n" + StatusRecording.Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nP:Pause R:Reset Q:Quit\n←→/drag:Wall +-:Speed\nT:Theme G:Record ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  P/Space  - Pause/Resume simulation  ║
║  R        - Reset to initial block   ║
║  Q        - Quit                     ║
║  ← →      - Nudge the left wall      ║
║  Mouse    - Drag the left wall       ║
║  + -      - Steps per frame          ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) captureFrame() {
	const dotPx = 4
	dx, dy := m.canvas.Dots()
	img := image.NewPaletted(image.Rect(0, 0, dx*dotPx, dy*dotPx), color.Palette{color.Black, color.White})
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			if !m.canvas.Get(x, y) {
				continue
			}
			for py := 0; py < dotPx; py++ {
				for px := 0; px < dotPx; px++ {
					img.SetColorIndex(x*dotPx+px, y*dotPx+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(gifPath)
	if err != nil {
		m.status = err.Error()
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "saved " + gifPath
}

// Run opens the full-screen viewer for cfg.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
