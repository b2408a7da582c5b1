package engine

import (
	"math"
	"sync"

	"vinav/input"
)

// State is the cursor and mode state shared by the hook, the mover and the
// dispatcher worker. Every field is guarded by mu, and nothing blocking
// (injection, sleeping, logging) happens while mu is held.
type State struct {
	mu sync.Mutex

	x, y          float64
	width, height float64

	tracker   Tracker
	shift     bool
	precision bool
	selection bool
	mode      Mode

	// keys whose press was forwarded and whose release has not been seen;
	// their release and repeats are always forwarded too
	forwarded map[input.Key]struct{}
}

func newState(width, height int, initial float64) *State {
	return &State{
		width:     float64(width),
		height:    float64(height),
		x:         float64(width / 2),
		y:         float64(height / 2),
		tracker:   NewTracker(initial),
		forwarded: make(map[input.Key]struct{}),
	}
}

// toggleMode flips the mode. Entering Typing drops every held key and the
// precision flag, and reports whether a selection drag was still open.
func (s *State) toggleMode() (m Mode, endSelection bool) {
	if s.mode == ModeNavigation {
		s.mode = ModeTyping
		s.tracker.ClearAll()
		s.precision = false
		endSelection = s.selection
		s.selection = false
	} else {
		s.mode = ModeNavigation
	}
	return s.mode, endSelection
}

func (s *State) clamp() {
	s.x = math.Max(0, math.Min(s.x, s.width-1))
	s.y = math.Max(0, math.Min(s.y, s.height-1))
}

// pos returns the pointer position in whole pixels.
func (s *State) pos() (int, int) {
	return int(math.Round(s.x)), int(math.Round(s.y))
}

// Snapshot is a copy of State for display and tests.
type Snapshot struct {
	X, Y          int
	Width, Height int
	Mode          Mode
	Shift         bool
	Precision     bool
	Selection     bool
	Held          map[input.Key]float64
}

func (s *State) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	x, y := s.pos()
	held := make(map[input.Key]float64, s.tracker.Len())
	for k := range s.tracker.start {
		held[k] = s.tracker.Speed(k)
	}
	return Snapshot{
		X: x, Y: y,
		Width: int(s.width), Height: int(s.height),
		Mode:      s.mode,
		Shift:     s.shift,
		Precision: s.precision,
		Selection: s.selection,
		Held:      held,
	}
}
