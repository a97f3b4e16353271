package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/zendigits/internal/metrics"
	"github.com/san-kum/zendigits/internal/scene"
)

const (
	// Scene pixels per braille dot.
	pxPerDot        = 4.0
	historyCapacity = 240
	minCols         = 16
	minRows         = 6
	maxFPS          = 30
	maxEntry        = 8
)

type TickMsg time.Time

// Model runs a scene in the terminal, projecting particles onto a braille
// canvas next to a status panel.
type Model struct {
	scene   *scene.Scene
	rec     *metrics.Recorder
	canvas  *Canvas
	theme   Theme
	st      styles
	fps     int
	elapsed float64
	last    time.Time
	running bool
	entry   string
	info    scene.FrameInfo
}

// NewModel sizes the canvas to cols×rows terminal cells and resizes the
// scene to match.
func NewModel(s *scene.Scene, cols, rows int, theme string) Model {
	rec := metrics.NewRecorder(historyCapacity)
	s.AddObserver(rec)

	fps := min(max(s.Config().FPS, 1), maxFPS)
	t := GetTheme(theme)
	m := Model{
		scene:   s,
		rec:     rec,
		theme:   t,
		st:      newStyles(t),
		fps:     fps,
		running: true,
	}
	m.resize(cols, rows)
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width-panelWidth-2, msg.Height-1)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.scene.Randomize()
		case "c":
			m.scene.ToggleLock()
		case " ":
			m.running = !m.running
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.st = newStyles(m.theme)
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if len(m.entry) < maxEntry {
				m.entry += msg.String()
			}
		case "backspace":
			if m.entry != "" {
				m.entry = m.entry[:len(m.entry)-1]
			}
		case "enter":
			m.scene.SetNumber(m.entry)
			m.entry = ""
		}
	case TickMsg:
		now := time.Time(msg)
		if m.running && !m.last.IsZero() {
			m.elapsed += now.Sub(m.last).Seconds()
		}
		m.last = now
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(cols, rows int) {
	m.canvas = NewCanvas(max(cols, minCols), max(rows, minRows))
	w, h := m.canvas.Dots()
	m.scene.Resize(int(float64(w)*pxPerDot), int(float64(h)*pxPerDot))
}

func (m *Model) step() {
	m.info = m.scene.FrameAt(m.elapsed, nil)
	m.canvas.Clear()
	m.canvas.Plot(m.info.Particles, pxPerDot)
}

func (m Model) View() string {
	ink := lipgloss.NewStyle().Foreground(m.theme.InkColor(m.info.Envelope.Alpha))
	canvasView := ink.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(m.panel()))
}

func (m Model) panel() string {
	var s strings.Builder
	s.WriteString(m.st.header.Render("ZENDIGITS") + "\n")

	lock := "cycling"
	if l := m.scene.Locked(); l != "" {
		lock = "locked"
	}
	s.WriteString(m.st.row("number", m.scene.Number()))
	s.WriteString(m.st.row("script", fmt.Sprintf("%s (%s)", m.info.Script, lock)))
	s.WriteString(m.st.row("text", m.info.Text))
	s.WriteString(m.st.row("particles", fmt.Sprintf("%d", len(m.info.Particles))))
	s.WriteString(m.st.row("breath", ProgressBar(m.info.Envelope.Tri, 16)))
	s.WriteString(m.st.row("cache", fmt.Sprintf("%.0f%% hits", m.info.Cache.HitRatio()*100)))
	s.WriteString(m.st.row("time", fmt.Sprintf("%.1fs", m.elapsed)))
	if m.scene.Expired(m.elapsed) {
		s.WriteString(m.st.row("remaining", "time's up"))
	} else if cd := m.scene.Countdown(m.elapsed); cd != "" {
		s.WriteString(m.st.row("remaining", cd))
	}
	if m.entry != "" {
		s.WriteString(m.st.row("entry", m.entry+"_"))
	}
	if !m.running {
		s.WriteString(m.st.paused.Render("PAUSED") + "\n")
	}

	if _, spread := m.rec.History(); len(spread) > 1 {
		chart := asciigraph.Plot(spread,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-12),
			asciigraph.Caption("spread"))
		s.WriteString("\n" + m.st.graph.Render(chart) + "\n")
	}

	s.WriteString(m.st.hint.Render("r random  c lock  t theme\n0-9 enter number\nspace pause  q quit"))
	return s.String()
}

// Elapsed returns the simulated seconds, excluding paused time.
func (m Model) Elapsed() float64 { return m.elapsed }

func (m Model) Canvas() *Canvas { return m.canvas }

func (m Model) Frame() scene.FrameInfo { return m.info }

// Entry returns the digits typed but not yet applied.
func (m Model) Entry() string { return m.entry }

// Run starts the terminal program on the alternate screen and returns the
// model as it was when the program quit.
func Run(s *scene.Scene, theme string) (Model, error) {
	p := tea.NewProgram(NewModel(s, 80, 24, theme), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Model{}, err
	}
	m, _ := final.(Model)
	return m, nil
}
