package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vinav/config"
	"vinav/engine"
	"vinav/input"
)

type fakeSource struct {
	snap engine.Snapshot
	cfg  *config.Config
}

func (f *fakeSource) Snapshot() engine.Snapshot { return f.snap }
func (f *fakeSource) Config() *config.Config    { return f.cfg }

func TestScreenMapCorners(t *testing.T) {
	s := engine.Snapshot{Width: 1920, Height: 1080}
	lines := strings.Split(renderScreenMap(s, 32, 9), "\n")
	if len(lines) != 11 {
		t.Fatalf("got %d lines, want 11", len(lines))
	}
	if !strings.HasPrefix(lines[1], "│▀") {
		t.Errorf("top-left pointer not drawn: %q", lines[1])
	}

	s.X, s.Y = 1919, 1079
	lines = strings.Split(renderScreenMap(s, 32, 9), "\n")
	if !strings.HasSuffix(lines[9], "▄│") {
		t.Errorf("bottom-right pointer not drawn: %q", lines[9])
	}
	for i := 1; i < 9; i++ {
		if strings.ContainsAny(lines[i], "▀▄") {
			t.Errorf("stray pointer on row %d: %q", i, lines[i])
		}
	}
}

func TestScreenMapNoDisplay(t *testing.T) {
	out := renderScreenMap(engine.Snapshot{}, 8, 2)
	if strings.ContainsAny(out, "▀▄") {
		t.Errorf("pointer drawn without a display: %q", out)
	}
}

func TestStatusFlags(t *testing.T) {
	if got := statusFlags(engine.Snapshot{}); got != "" {
		t.Errorf("idle flags = %q", got)
	}
	got := statusFlags(engine.Snapshot{Precision: true, Selection: true})
	if got != "precision selecting" {
		t.Errorf("flags = %q", got)
	}
}

func TestHeldLinesSorted(t *testing.T) {
	s := engine.Snapshot{Held: map[input.Key]float64{
		input.KeyL: 4,
		input.KeyH: 1,
		input.KeyJ: 2,
	}}
	lines := heldLines(s)
	if len(lines) != 3 {
		t.Fatalf("got %d lines", len(lines))
	}
	for i, want := range []string{"h", "j", "l"} {
		if !strings.HasPrefix(lines[i], want+" ") {
			t.Errorf("line %d = %q, want key %s", i, lines[i], want)
		}
	}
}

func TestBannerListsBindings(t *testing.T) {
	cfg := config.Default()
	out := renderBanner(cfg, 1920, 1080)
	for _, want := range []string{"h j k l", "return", "shift_g", "escape", "1920x1080", "built-in defaults"} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q", want)
		}
	}
	if !strings.Contains(out, "without limit") {
		t.Error("unbounded warning missing")
	}

	limit := 80.0
	cfg.MaxMoveStep = &limit
	cfg.Source = "/tmp/vinav.toml"
	out = renderBanner(cfg, 800, 600)
	if strings.Contains(out, "without limit") {
		t.Error("unbounded warning shown with max_move_step set")
	}
	if !strings.Contains(out, "/tmp/vinav.toml") {
		t.Error("config source missing")
	}
}

func TestTUIPollsSnapshot(t *testing.T) {
	src := &fakeSource{cfg: config.Default()}
	var m tea.Model = tuiModel{src: src, version: "test"}

	if got := m.View(); got != "Loading..." {
		t.Errorf("view before size = %q", got)
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	src.snap = engine.Snapshot{X: 10, Y: 20, Width: 1920, Height: 1080, Mode: engine.ModeTyping}
	m, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick did not schedule the next tick")
	}
	view := m.View()
	for _, want := range []string{"TYPING", "pointer 10,20 of 1920x1080", "vinav test"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTUIQuitsOnCtrlC(t *testing.T) {
	m := tuiModel{src: &fakeSource{cfg: config.Default()}}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("no command for ctrl+c")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}
