package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vinav/config"
	"vinav/engine"
)

// statusSource is what the status view polls on every tick.
type statusSource interface {
	Snapshot() engine.Snapshot
	Config() *config.Config
}

type tickMsg time.Time

const (
	mapWidth  = 32 // characters
	mapHeight = 9  // characters, two pixel rows each
)

type tuiModel struct {
	src           statusSource
	stats         func() (done, dropped int64)
	version       string
	snap          engine.Snapshot
	width, height int
}

var (
	mapStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	navStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	typingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	flagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpBoldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

func newTUIProgram(eng *engine.Engine, version string) *tea.Program {
	m := tuiModel{src: eng, stats: eng.Dispatcher.Stats, version: version}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func tuiTick() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case tickMsg:
		m.snap = m.src.Snapshot()
		return m, tuiTick()
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	left := renderScreenMap(m.snap, mapWidth, mapHeight)

	var lines []string
	if m.snap.Mode == engine.ModeTyping {
		lines = append(lines, typingStyle.Render("● TYPING"))
	} else {
		lines = append(lines, navStyle.Render("● NAVIGATION"))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("pointer %d,%d of %dx%d",
		m.snap.X, m.snap.Y, m.snap.Width, m.snap.Height)))
	if f := statusFlags(m.snap); f != "" {
		lines = append(lines, flagStyle.Render(f))
	}
	for _, h := range heldLines(m.snap) {
		lines = append(lines, dimStyle.Render(h))
	}
	if m.stats != nil {
		done, dropped := m.stats()
		s := fmt.Sprintf("%d actions", done)
		if dropped > 0 {
			s += fmt.Sprintf(", %d dropped", dropped)
		}
		lines = append(lines, dimStyle.Render(s))
	}
	lines = append(lines, "")

	cfg := m.src.Config()
	lines = append(lines,
		helpBoldStyle.Render(cfg.KeyName(config.BindToggleMode))+helpStyle.Render(" to switch mode"),
		helpBoldStyle.Render("ctrl+c")+helpStyle.Render(" here to quit"),
		helpStyle.Render("vinav "+m.version),
	)

	right := lipgloss.NewStyle().
		PaddingLeft(2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderScreenMap draws the display scaled down to w by h characters, using
// half blocks so each character cell holds two pixel rows.
func renderScreenMap(s engine.Snapshot, w, h int) string {
	cx, cy := -1, -1
	if s.Width > 0 && s.Height > 0 {
		cx = s.X * w / s.Width
		cy = s.Y * h * 2 / s.Height
		cx = min(max(cx, 0), w-1)
		cy = min(max(cy, 0), h*2-1)
	}

	var b strings.Builder
	b.WriteString(mapStyle.Render("┌" + strings.Repeat("─", w) + "┐"))
	b.WriteString("\n")
	for row := 0; row < h; row++ {
		b.WriteString(mapStyle.Render("│"))
		for col := 0; col < w; col++ {
			if col != cx {
				b.WriteString(" ")
				continue
			}
			switch cy {
			case row * 2:
				b.WriteString(cursorStyle.Render("▀"))
			case row*2 + 1:
				b.WriteString(cursorStyle.Render("▄"))
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString(mapStyle.Render("│"))
		b.WriteString("\n")
	}
	b.WriteString(mapStyle.Render("└" + strings.Repeat("─", w) + "┘"))
	return b.String()
}

func statusFlags(s engine.Snapshot) string {
	var f []string
	if s.Shift {
		f = append(f, "shift")
	}
	if s.Precision {
		f = append(f, "precision")
	}
	if s.Selection {
		f = append(f, "selecting")
	}
	return strings.Join(f, " ")
}

// heldLines lists held keys with their current speed, ordered by key name.
func heldLines(s engine.Snapshot) []string {
	lines := make([]string, 0, len(s.Held))
	for k, v := range s.Held {
		lines = append(lines, fmt.Sprintf("%-3s %7.1f px/tick", k, v))
	}
	sort.Strings(lines)
	return lines
}
