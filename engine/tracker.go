package engine

import (
	"time"

	"vinav/input"
)

// Tracker records when each held direction key went down and the speed last
// computed for it. Both maps always hold the same key set. It has no lock of
// its own; State.mu guards it.
type Tracker struct {
	initial float64
	start   map[input.Key]time.Time
	speed   map[input.Key]float64
}

func NewTracker(initial float64) Tracker {
	return Tracker{
		initial: initial,
		start:   make(map[input.Key]time.Time),
		speed:   make(map[input.Key]float64),
	}
}

// Start begins tracking k at now, replacing any stale entry.
func (t *Tracker) Start(k input.Key, now time.Time) {
	t.start[k] = now
	t.speed[k] = t.initial
}

func (t *Tracker) Stop(k input.Key) {
	delete(t.start, k)
	delete(t.speed, k)
}

func (t *Tracker) IsHeld(k input.Key) bool {
	_, ok := t.start[k]
	return ok
}

func (t *Tracker) ClearAll() {
	clear(t.start)
	clear(t.speed)
}

// Hold returns how long k has been held as of now.
func (t *Tracker) Hold(k input.Key, now time.Time) (time.Duration, bool) {
	s, ok := t.start[k]
	if !ok {
		return 0, false
	}
	d := now.Sub(s)
	if d < 0 {
		d = 0
	}
	return d, true
}

// SetSpeed stores the last speed for a held key; untracked keys are ignored
// so the two maps never diverge.
func (t *Tracker) SetSpeed(k input.Key, v float64) {
	if _, ok := t.start[k]; ok {
		t.speed[k] = v
	}
}

func (t *Tracker) Speed(k input.Key) float64 {
	return t.speed[k]
}

func (t *Tracker) Len() int {
	return len(t.start)
}

// consistent reports whether both maps carry the same keys.
func (t *Tracker) consistent() bool {
	if len(t.start) != len(t.speed) {
		return false
	}
	for k := range t.start {
		if _, ok := t.speed[k]; !ok {
			return false
		}
	}
	return true
}
