package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Left    lipgloss.Color
	Right   lipgloss.Color
	Wall    lipgloss.Color
	Gate    lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// Color maps a canvas tag to its theme colour.
func (t Theme) Color(tag Tag) lipgloss.Color {
	switch tag {
	case TagLeft:
		return t.Left
	case TagRight:
		return t.Right
	case TagGate:
		return t.Gate
	case TagWall:
		return t.Wall
	default:
		return t.Text
	}
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:    "classic",
		Left:    lipgloss.Color("#ff4444"), // hot
		Right:   lipgloss.Color("#4488ff"), // cold
		Wall:    lipgloss.Color("#aaaaaa"),
		Gate:    lipgloss.Color("#ffcc00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Left:    lipgloss.Color("#88ff88"),
		Right:   lipgloss.Color("#00aa00"),
		Wall:    lipgloss.Color("#005500"),
		Gate:    lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Left:    lipgloss.Color("#ffd700"),
		Right:   lipgloss.Color("#00a8cc"),
		Wall:    lipgloss.Color("#4488aa"),
		Gate:    lipgloss.Color("#e0f0ff"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// NextTheme returns the theme after the named one, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeClassic
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
