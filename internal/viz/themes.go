package viz

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines color scheme for the TUI. Ink is the particle color at full
// breath alpha; it is dimmed toward black as the field exhales.
type Theme struct {
	Name   string
	Ink    [3]uint8
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
}

var (
	ThemeMono = Theme{
		Name:   "mono",
		Ink:    [3]uint8{255, 255, 255},
		Accent: lipgloss.Color("#ffffff"),
		Text:   lipgloss.Color("#dddddd"),
		Muted:  lipgloss.Color("#777777"),
		Border: lipgloss.Color("#444444"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Ink:    [3]uint8{0, 255, 0},
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Border: lipgloss.Color("#003300"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Ink:    [3]uint8{0xe0, 0xf0, 0xff},
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Border: lipgloss.Color("#0077be"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Ink:    [3]uint8{0xfe, 0xca, 0x57},
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Border: lipgloss.Color("#ff6b6b"),
	}

	Themes = []Theme{
		ThemeMono,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to mono.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMono
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after name in Themes.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// InkColor scales the theme ink by alpha/255.
func (t Theme) InkColor(alpha uint8) lipgloss.Color {
	scale := func(v uint8) int { return int(v) * int(alpha) / 255 }
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", scale(t.Ink[0]), scale(t.Ink[1]), scale(t.Ink[2])))
}
