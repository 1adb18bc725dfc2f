package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view. The canvas is one colour per frame, so the
// band colour paints the whole scene.
type Theme struct {
	Name   string
	Band   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Grab   lipgloss.Color
	Warn   lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:   "night",
		Band:   lipgloss.Color("#e0e0ff"),
		Accent: lipgloss.Color("#00ccff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
		Grab:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ff8800"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Band:   lipgloss.Color("#00ff00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Grab:   lipgloss.Color("#ffff00"),
		Warn:   lipgloss.Color("#ff0000"),
	}

	ThemeBadge = Theme{
		Name:   "badge",
		Band:   lipgloss.Color("#ff6b6b"),
		Accent: lipgloss.Color("#feca57"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Grab:   lipgloss.Color("#5fd068"),
		Warn:   lipgloss.Color("#ff4757"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Band:   lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Grab:   lipgloss.Color("#00ff00"),
		Warn:   lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeNight, ThemeRetro, ThemeBadge, ThemeMinimal}
)

// GetTheme returns a theme by name, night when unknown.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

// NextTheme cycles through Themes.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
