package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"vinav/config"
	"vinav/input"
)

// Mover polls the held direction keys every RepeatDelay and moves the
// pointer. Latency is bounded below by the tick period.
type Mover struct {
	st      *State
	cfg     *config.Config
	em      *Emitter
	log     zerolog.Logger
	now     func() time.Time
	running atomic.Bool

	dirs [4]input.Key // indexed by Direction
}

func newMover(st *State, cfg *config.Config, em *Emitter, log zerolog.Logger) *Mover {
	m := &Mover{st: st, cfg: cfg, em: em, log: log, now: time.Now}
	m.dirs[DirLeft] = cfg.Key(config.BindLeft)
	m.dirs[DirDown] = cfg.Key(config.BindDown)
	m.dirs[DirUp] = cfg.Key(config.BindUp)
	m.dirs[DirRight] = cfg.Key(config.BindRight)
	return m
}

// Run ticks until ctx is cancelled or Stop is called.
func (m *Mover) Run(ctx context.Context) {
	m.running.Store(true)
	ticker := time.NewTicker(m.cfg.RepeatDelay())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.running.Load() {
				return
			}
			m.Tick()
		}
	}
}

// Stop makes Run return at its next tick.
func (m *Mover) Stop() {
	m.running.Store(false)
}

type axisStep struct {
	dir   Direction
	hold  time.Duration
	speed float64
}

// Tick advances the position once for every held direction key and injects
// at most one move. It reports whether the pointer moved.
func (m *Mover) Tick() bool {
	now := m.now()
	var steps [4]axisStep
	n := 0

	m.st.mu.Lock()
	if m.st.mode != ModeNavigation || m.st.tracker.Len() == 0 {
		m.st.mu.Unlock()
		return false
	}
	oldX, oldY := m.st.pos()
	for dir, k := range m.dirs {
		hold, held := m.st.tracker.Hold(k, now)
		if !held {
			continue
		}
		speed := Speed(hold, m.cfg, m.st.precision)
		m.st.tracker.SetSpeed(k, speed)
		switch Direction(dir) {
		case DirLeft:
			m.st.x -= speed
		case DirRight:
			m.st.x += speed
		case DirUp:
			m.st.y -= speed
		case DirDown:
			m.st.y += speed
		}
		steps[n] = axisStep{Direction(dir), hold, speed}
		n++
	}
	m.st.clamp()
	x, y := m.st.pos()
	m.st.mu.Unlock()

	for _, s := range steps[:n] {
		m.log.Debug().Stringer("dir", s.dir).Dur("hold", s.hold).Float64("speed", s.speed).Int("x", x).Int("y", y).Msg("tick")
	}

	if x == oldX && y == oldY {
		return false
	}
	if err := m.em.MoveTo(x, y); err != nil {
		// state keeps the new position; the next move catches up
		return false
	}
	return true
}
