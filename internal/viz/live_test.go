package viz

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sphsim/internal/config"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.GetPreset("small"))
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestTickStepsWhileRunning(t *testing.T) {
	g := NewWithT(t)
	m := send(newTestModel(t), TickMsg{}).(Model)

	g.Expect(m.Steps()).To(Equal(DefaultStepsPerFrame))
	g.Expect(m.Time()).To(BeNumerically("~", float64(DefaultStepsPerFrame)*config.DefaultDt, 1e-12))
	g.Expect(m.energyHistory).To(HaveLen(1))
}

func TestPauseKeys(t *testing.T) {
	g := NewWithT(t)
	for _, k := range []string{"p", " "} {
		m := send(newTestModel(t), key(k)).(Model)
		g.Expect(m.Running()).To(BeFalse(), k)

		m = send(m, TickMsg{}).(Model)
		g.Expect(m.Steps()).To(BeZero(), "paused model must not step")

		m = send(m, key(k)).(Model)
		g.Expect(m.Running()).To(BeTrue())
	}
}

func TestArrowKeysMoveWall(t *testing.T) {
	g := NewWithT(t)
	m := send(newTestModel(t), key("right"), key("right")).(Model)
	g.Expect(m.Solver().WallLeft()).To(BeNumerically("~", 2*wallNudge, 1e-12))
	g.Expect(m.ctrl).To(BeNil())

	m = send(m, key("left"), key("left"), key("left")).(Model)
	g.Expect(m.Solver().WallLeft()).To(Equal(0.0), "wall never goes below zero")
}

func TestArrowKeysStopAtRightEdge(t *testing.T) {
	g := NewWithT(t)
	m := tea.Model(newTestModel(t))
	for i := 0; i < 200; i++ {
		m = send(m, key("right"))
	}
	s := m.(Model).Solver()
	g.Expect(s.WallLeft()).To(Equal(s.Params().MaxWall()))
	g.Expect(s.Bounds().Left).To(BeNumerically("<", s.Bounds().Right))
}

func TestMouseDragMovesWall(t *testing.T) {
	g := NewWithT(t)
	m := newTestModel(t)
	press := tea.MouseMsg{X: canvasCol + 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	move := tea.MouseMsg{X: canvasCol + 30, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	release := tea.MouseMsg{X: canvasCol + 30, Action: tea.MouseActionRelease}

	m = send(m, press, move).(Model)
	want := m.view.CellToWorldX(30) - m.view.CellToWorldX(10)
	g.Expect(m.Solver().WallLeft()).To(BeNumerically("~", want, 1e-12))

	m = send(m, release, tea.MouseMsg{X: canvasCol + 60, Action: tea.MouseActionMotion}).(Model)
	g.Expect(m.Solver().WallLeft()).To(BeNumerically("~", want, 1e-12), "motion after release is ignored")
}

func TestResetRestoresInitialState(t *testing.T) {
	g := NewWithT(t)
	m := send(newTestModel(t), TickMsg{}, key("right")).(Model)
	g.Expect(m.Steps()).NotTo(BeZero())

	m = send(m, key("r")).(Model)
	g.Expect(m.Steps()).To(BeZero())
	g.Expect(m.Time()).To(BeZero())
	g.Expect(m.Solver().WallLeft()).To(BeZero())
	g.Expect(m.ctrl).NotTo(BeNil())
}

func TestStepsPerFrameKeys(t *testing.T) {
	g := NewWithT(t)
	m := send(newTestModel(t), key("+")).(Model)
	g.Expect(m.stepsPerFrame).To(Equal(2 * DefaultStepsPerFrame))
	m = send(m, key("-"), key("-"), key("-"), key("-"), key("-"), key("-")).(Model)
	g.Expect(m.stepsPerFrame).To(Equal(1))
}

func TestViewShowsStatus(t *testing.T) {
	g := NewWithT(t)
	m := newTestModel(t)
	g.Expect(m.View()).To(ContainSubstring("RUNNING"))
	m = send(m, key("p")).(Model)
	g.Expect(m.View()).To(ContainSubstring("PAUSED"))
}

func TestPickerStartsSimulation(t *testing.T) {
	g := NewWithT(t)
	p := NewPicker()
	g.Expect(p.presets).To(ContainElement("small"))

	var idx int
	for i, name := range p.presets {
		if name == "small" {
			idx = i
		}
	}
	var m tea.Model = p
	for i := 0; i < idx; i++ {
		m = send(m, key("j"))
	}
	m = send(m, key("enter"))
	g.Expect(m.(Picker).state).To(Equal(stateConfig))
	g.Expect(m.(Picker).cfg.Name).To(Equal("small"))

	// viscosity is the third editable key
	m = send(m, key("j"), key("j"), key("l"))
	g.Expect(m.(Picker).cfg.Params.Viscosity).To(Equal(config.DefaultConfig().Params.Viscosity + nudge["viscosity"]))

	m = send(m, key("s"))
	g.Expect(m.(Picker).err).NotTo(HaveOccurred())
	g.Expect(m.(Picker).state).To(Equal(stateSim))
	g.Expect(m.View()).To(ContainSubstring("SMALL"))
}

func TestNextThemeCycles(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)
	SetTheme(Themes[len(Themes)-1].Name)
	NextTheme()
	if CurrentTheme.Name != Themes[0].Name {
		t.Errorf("theme = %s, want wrap to %s", CurrentTheme.Name, Themes[0].Name)
	}
}
