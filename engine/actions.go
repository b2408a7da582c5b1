package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"vinav/config"
	"vinav/input"
)

// Action is a one-shot behaviour run by the Dispatcher.
type Action uint8

const (
	ActionClick Action = iota
	ActionRightClick
	ActionSelectToggle
	ActionGotoTop
	ActionGotoBottom
	ActionYank
	ActionPaste
	ActionScroll

	// ActionMove injects the current position.
	ActionMove
	// ActionSelectEnd releases a drag left open when Typing mode starts.
	ActionSelectEnd
	// ActionModeChanged reports a mode switch.
	ActionModeChanged
)

var actionNames = [...]string{
	ActionClick:        "click",
	ActionRightClick:   "right_click",
	ActionSelectToggle: "select_toggle",
	ActionGotoTop:      "goto_top",
	ActionGotoBottom:   "goto_bottom",
	ActionYank:         "yank",
	ActionPaste:        "paste",
	ActionScroll:       "scroll",
	ActionMove:         "move",
	ActionSelectEnd:    "select_end",
	ActionModeChanged:  "mode_changed",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Intent is one queued unit of work for the dispatcher worker.
type Intent struct {
	Action Action
	Dir    Direction // ActionScroll
	Down   bool      // ActionSelectToggle: start (true) or end the drag
	Mode   Mode      // ActionModeChanged
}

// Clipboard reads the system clipboard.
type Clipboard interface {
	Read() (string, error)
}

const queueSize = 64

// Dispatcher runs one-shot actions on its own goroutine so the hook never
// waits for an injection or a settle delay.
type Dispatcher struct {
	queue chan Intent
	st    *State
	cfg   *config.Config
	em    *Emitter
	log   zerolog.Logger

	clip         Clipboard
	onModeChange func(Mode)

	done    atomic.Int64
	dropped atomic.Int64
}

func newDispatcher(st *State, cfg *config.Config, em *Emitter, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		queue: make(chan Intent, queueSize),
		st:    st,
		cfg:   cfg,
		em:    em,
		log:   log,
	}
}

// Dispatch queues in without blocking. A full queue drops the intent.
func (d *Dispatcher) Dispatch(in Intent) bool {
	select {
	case d.queue <- in:
		return true
	default:
		d.dropped.Add(1)
		d.log.Warn().Stringer("action", in.Action).Msg("action queue full, dropped")
		d.undoSelection(in)
		return false
	}
}

// undoSelection reverts the flag flipped by the gate for a selection toggle
// whose button event never went out, so the flag keeps matching the button.
func (d *Dispatcher) undoSelection(in Intent) {
	if in.Action != ActionSelectToggle {
		return
	}
	d.st.mu.Lock()
	if d.st.selection == in.Down {
		d.st.selection = !in.Down
	}
	d.st.mu.Unlock()
}

// Run executes queued intents in order until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-d.queue:
			if err := d.Do(in); err != nil {
				d.log.Error().Err(err).Stringer("action", in.Action).Msg("action abandoned")
			}
		}
	}
}

// Do executes in synchronously. An injection failure abandons the rest of
// the action.
func (d *Dispatcher) Do(in Intent) error {
	d.done.Add(1)
	switch in.Action {
	case ActionClick:
		return d.click(input.ButtonLeft)
	case ActionRightClick:
		return d.click(input.ButtonRight)
	case ActionSelectToggle:
		if in.Down {
			d.log.Info().Msg("selection started")
		} else {
			d.log.Info().Msg("selection ended")
		}
		if err := d.em.Button(input.ButtonLeft, in.Down); err != nil {
			d.undoSelection(in)
			return err
		}
		return nil
	case ActionSelectEnd:
		d.log.Info().Msg("selection ended by mode switch")
		return d.em.Button(input.ButtonLeft, false)
	case ActionGotoTop, ActionGotoBottom:
		return d.gotoEdge(in.Action == ActionGotoTop)
	case ActionMove:
		d.st.mu.Lock()
		x, y := d.st.pos()
		d.st.mu.Unlock()
		return d.em.MoveTo(x, y)
	case ActionScroll:
		return d.scroll(in.Dir)
	case ActionYank:
		if err := d.chord(input.KeyC); err != nil {
			return err
		}
		d.readBack()
		return nil
	case ActionPaste:
		return d.chord(input.KeyV)
	case ActionModeChanged:
		d.log.Info().Stringer("mode", in.Mode).Msg("mode switch")
		if d.onModeChange != nil {
			d.onModeChange(in.Mode)
		}
		return nil
	}
	return fmt.Errorf("unknown action %d", in.Action)
}

func (d *Dispatcher) click(b input.Button) error {
	if err := d.em.Button(b, true); err != nil {
		return err
	}
	return d.em.Button(b, false)
}

func (d *Dispatcher) gotoEdge(top bool) error {
	d.st.mu.Lock()
	if top {
		d.st.y = 0
	} else {
		d.st.y = d.st.height - 1
	}
	x, y := d.st.pos()
	d.st.mu.Unlock()
	return d.em.MoveTo(x, y)
}

// scroll sends a burst of ScrollLines wheel events. Positive dy scrolls up,
// positive dx scrolls right.
func (d *Dispatcher) scroll(dir Direction) error {
	delta := d.cfg.ScrollDelta
	var dx, dy int
	switch dir {
	case DirUp:
		dy = delta
	case DirDown:
		dy = -delta
	case DirLeft:
		dx = -delta
	case DirRight:
		dx = delta
	}
	for range d.cfg.ScrollLines {
		if err := d.em.Wheel(dx, dy); err != nil {
			return err
		}
	}
	return nil
}

// chord presses accelerator+letter. Once the accelerator is down it is
// always released, even when the letter fails.
func (d *Dispatcher) chord(letter input.Key) error {
	accel := input.Accelerator()
	if err := d.em.Key(accel, true); err != nil {
		return err
	}
	err := d.em.Key(letter, true)
	if err == nil {
		err = d.em.Key(letter, false)
	}
	if uerr := d.em.Key(accel, false); err == nil {
		err = uerr
	}
	return err
}

func (d *Dispatcher) readBack() {
	if d.clip == nil {
		return
	}
	text, err := d.clip.Read()
	if err != nil {
		d.log.Warn().Err(err).Msg("clipboard read-back failed")
		return
	}
	d.log.Debug().Int("bytes", len(text)).Msg("yanked")
}

// Stats returns how many intents ran and how many were dropped.
func (d *Dispatcher) Stats() (done, dropped int64) {
	return d.done.Load(), d.dropped.Load()
}
