package engine

import (
	"github.com/rs/zerolog"

	"vinav/config"
	"vinav/input"
)

// binding is what a key means in Navigation mode.
type binding struct {
	dir    Direction
	isDir  bool
	action Action
	isAct  bool
}

// Gate is the hook handler. It decides suppress or forward for every key
// event and edits State on press and release edges. Everything slow is
// handed to the Dispatcher after the lock is released.
type Gate struct {
	st   *State
	cfg  *config.Config
	d    *Dispatcher
	log  zerolog.Logger
	keys map[input.Key]binding

	toggle           input.Key
	top              input.Key
	bottom           input.Key
	bottomNeedsShift bool
}

func newGate(st *State, cfg *config.Config, d *Dispatcher, log zerolog.Logger) *Gate {
	g := &Gate{
		st:               st,
		cfg:              cfg,
		d:                d,
		log:              log,
		keys:             make(map[input.Key]binding),
		toggle:           cfg.Key(config.BindToggleMode),
		top:              cfg.Key(config.BindGotoTop),
		bottom:           cfg.Key(config.BindGotoBottom),
		bottomNeedsShift: cfg.GotoBottomNeedsShift,
	}
	for b, dir := range map[config.Binding]Direction{
		config.BindLeft:  DirLeft,
		config.BindDown:  DirDown,
		config.BindUp:    DirUp,
		config.BindRight: DirRight,
	} {
		g.keys[cfg.Key(b)] = binding{dir: dir, isDir: true}
	}
	for b, a := range map[config.Binding]Action{
		config.BindClick:        ActionClick,
		config.BindRightClick:   ActionRightClick,
		config.BindSelectToggle: ActionSelectToggle,
		config.BindYank:         ActionYank,
		config.BindPaste:        ActionPaste,
	} {
		g.keys[cfg.Key(b)] = binding{action: a, isAct: true}
	}
	return g
}

// Handle is the input.Handler installed on the hook.
func (g *Gate) Handle(ev input.Event) input.Decision {
	var (
		d       input.Decision
		intents [2]Intent
		n       int
	)

	g.st.mu.Lock()
	switch ev.Kind {
	case input.KeyPress:
		d, n = g.press(ev, &intents)
	case input.KeyRelease:
		d = g.release(ev)
	case input.KeyRepeat:
		d = g.repeat(ev)
	default:
		d = input.Forward
	}
	if d == input.Forward && ev.Kind == input.KeyPress {
		g.st.forwarded[ev.Key] = struct{}{}
	}
	g.st.mu.Unlock()

	for _, in := range intents[:n] {
		g.d.Dispatch(in)
	}
	if ev.Kind != input.KeyRepeat {
		g.log.Debug().Stringer("key", ev.Key).Stringer("kind", ev.Kind).Stringer("decision", d).Msg("key")
	}
	return d
}

// press evaluates the navigation rules top to bottom; the first match wins.
// Called with st.mu held.
func (g *Gate) press(ev input.Event, out *[2]Intent) (input.Decision, int) {
	st := g.st
	k := ev.Key

	// modifiers are tracked in every mode; standalone presses are not
	// suppressed here
	if k.IsShift() {
		st.shift = true
	}
	if k == input.KeySpace {
		st.precision = true
	}

	if k == g.toggle {
		mode, endSelection := st.toggleMode()
		n := 0
		if endSelection {
			out[n] = Intent{Action: ActionSelectEnd}
			n++
		}
		out[n] = Intent{Action: ActionModeChanged, Mode: mode}
		n++
		return input.Suppress, n
	}

	if st.mode != ModeNavigation {
		return input.Forward, 0
	}

	if b, ok := g.keys[k]; ok && b.isDir {
		if st.shift {
			out[0] = Intent{Action: ActionScroll, Dir: b.dir}
			return input.Suppress, 1
		}
		st.tracker.Start(k, ev.Time)
		return input.Suppress, 0
	}

	if b, ok := g.keys[k]; ok && b.isAct {
		in := Intent{Action: b.action}
		if b.action == ActionSelectToggle {
			st.selection = !st.selection
			in.Down = st.selection
		}
		out[0] = in
		return input.Suppress, 1
	}
	// goto-top and goto-bottom may share a key; shift picks one
	if k == g.top && !st.shift {
		out[0] = Intent{Action: ActionGotoTop}
		return input.Suppress, 1
	}
	if k == g.bottom && (st.shift || !g.bottomNeedsShift) {
		out[0] = Intent{Action: ActionGotoBottom}
		return input.Suppress, 1
	}

	if k == input.KeySpace {
		return input.Suppress, 0
	}
	return input.Forward, 0
}

// release mirrors press. Called with st.mu held.
func (g *Gate) release(ev input.Event) input.Decision {
	st := g.st
	k := ev.Key

	if k.IsShift() {
		st.shift = false
	}
	if k == input.KeySpace {
		st.precision = false
	}

	if b, ok := g.keys[k]; ok && b.isDir {
		st.tracker.Stop(k)
	}

	// a key whose press went through must be released downstream too
	if _, ok := st.forwarded[k]; ok {
		delete(st.forwarded, k)
		return input.Forward
	}

	if k == g.toggle {
		return input.Suppress
	}
	if st.mode == ModeNavigation {
		if b, ok := g.keys[k]; ok && b.isDir {
			return input.Suppress
		}
		if k == input.KeySpace {
			return input.Suppress
		}
	}
	return input.Forward
}

// repeat follows the decision made for the press: auto-repeat never
// creates or refreshes a held key. Called with st.mu held.
func (g *Gate) repeat(ev input.Event) input.Decision {
	if _, ok := g.st.forwarded[ev.Key]; ok {
		return input.Forward
	}
	return input.Suppress
}
