package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the viewer.
type Theme struct {
	Name   string
	Fluid  lipgloss.Color
	Wall   lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:   "ocean",
		Fluid:  lipgloss.Color("#00a8cc"),
		Wall:   lipgloss.Color("#ffd700"),
		Accent: lipgloss.Color("#0077be"),
		Muted:  lipgloss.Color("#4488aa"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Fluid:  lipgloss.Color("#00ff00"),
		Wall:   lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#00cc00"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Fluid:  lipgloss.Color("#ffffff"),
		Wall:   lipgloss.Color("#0088ff"),
		Accent: lipgloss.Color("#cccccc"),
		Muted:  lipgloss.Color("#888888"),
	}

	ThemeLava = Theme{
		Name:   "lava",
		Fluid:  lipgloss.Color("#ff6b35"),
		Wall:   lipgloss.Color("#feca57"),
		Accent: lipgloss.Color("#ff4757"),
		Muted:  lipgloss.Color("#8b6b8c"),
	}

	CurrentTheme = ThemeOcean

	Themes = []Theme{ThemeOcean, ThemeRetroGreen, ThemeMinimal, ThemeLava}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
