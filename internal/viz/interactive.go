package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/sphsim/internal/config"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var presetInfo = map[string]string{
	"dam_break":  "block released mid-tank",
	"small":      "12x12 quick look",
	"column":     "tall column collapse",
	"wave_maker": "oscillating left wall",
	"viscous":    "high viscosity block",
	"piston":     "scripted wall push",
}

// editable are the keys the setup screen exposes, in display order.
var editable = []string{
	"particles_per_side", "stiffness", "viscosity", "gravity", "wall_left", "dt",
}

// steps used by h/l on each editable key
var nudge = map[string]float64{
	"particles_per_side": 1,
	"stiffness":          100,
	"viscosity":          5,
	"gravity":            0.5,
	"wall_left":          0.05,
	"dt":                 0.00005,
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// Picker chooses a preset, lets the user tweak it, then hands over to the
// live viewer.
type Picker struct {
	state       int
	cursor      int
	presets     []string
	cfg         *config.Config
	paramCursor int
	editing     bool
	editBuf     string
	err         error
	live        Model
}

func NewPicker() Picker {
	return Picker{state: stateMenu, presets: config.ListPresets()}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		live, cmd := m.live.Update(msg)
		m.live = live.(Model)
		return m, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(key)
		case stateConfig:
			return m.configKey(key)
		}
	}
	return m, nil
}

func (m Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	name := editable[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			v, err := strconv.ParseFloat(m.editBuf, 64)
			if err == nil {
				err = m.cfg.SetParam(name, v)
			}
			m.err = err
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-e") {
				m.editBuf += s
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(editable)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		v, _ := m.cfg.Param(name)
		m.editing, m.editBuf = true, strconv.FormatFloat(v, 'g', -1, 64)
	case "left", "h":
		m.adjust(name, -nudge[name])
	case "right", "l":
		m.adjust(name, nudge[name])
	case "s":
		return m.start()
	}
	return m, nil
}

func (m *Picker) adjust(name string, delta float64) {
	v, err := m.cfg.Param(name)
	if err != nil {
		m.err = err
		return
	}
	m.err = m.cfg.SetParam(name, v+delta)
}

func (m Picker) start() (Picker, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	live, err := NewModel(m.cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state, m.err = live, stateSim, nil
	return m, m.live.Init()
}

func (m Picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("SPHSIM") + "\n    " + subStyle.Render("2D smoothed particle fluid") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", name)), idleDescStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m Picker) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n    " + subStyle.Render(presetInfo[m.cfg.Name]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range editable {
		v, _ := m.cfg.Param(name)
		val := fmt.Sprintf("%10.5g", v)
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-20s", name)), descStyle.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-20s", name)), idleDescStyle.Render(val)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// hints renders alternating key/description pairs.
func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return strings.TrimRight(b.String(), " ")
}

// RunInteractive opens the preset picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewPicker(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
