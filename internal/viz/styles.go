package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	hint   lipgloss.Style
	graph  lipgloss.Style
	paused lipgloss.Style
}

const panelWidth = 36

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(panelWidth),
		header: lipgloss.NewStyle().Bold(true).Foreground(t.Accent).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(11),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		hint:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		graph:  lipgloss.NewStyle().Foreground(t.Accent),
		paused: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
	}
}

// ProgressBar renders percent of width as a bar.
func ProgressBar(percent float64, width int) string {
	filled := min(max(int(percent*float64(width)+0.5), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}
