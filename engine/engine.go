// Package engine is the navigation core: the acceleration curve, held-key
// tracking, the Navigation/Typing mode switch, the mover loop, the hook gate
// and the one-shot action dispatcher, all sharing one State.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vinav/config"
	"vinav/input"
)

// Options carries the collaborators the engine does not own.
type Options struct {
	Width, Height int
	Injector      input.Injector
	Logger        zerolog.Logger
	// Clipboard, if set, is read back after every yank.
	Clipboard Clipboard
	// OnModeChange, if set, runs on the dispatcher worker after each switch.
	OnModeChange func(Mode)
}

// Engine owns the shared State and the components acting on it.
type Engine struct {
	cfg *config.Config
	st  *State
	log zerolog.Logger

	Gate       *Gate
	Mover      *Mover
	Dispatcher *Dispatcher
	Emitter    *Emitter

	started time.Time
}

// New builds an engine for a display of opts.Width by opts.Height with the
// pointer at its centre. cfg must come from config.Load or config.Default.
func New(cfg *config.Config, opts Options) *Engine {
	st := newState(opts.Width, opts.Height, cfg.InitialMoveStep)
	em := newEmitter(opts.Injector, cfg.MoveDelay(), opts.Logger)
	d := newDispatcher(st, cfg, em, opts.Logger)
	d.clip = opts.Clipboard
	d.onModeChange = opts.OnModeChange

	return &Engine{
		cfg:        cfg,
		st:         st,
		log:        opts.Logger,
		Gate:       newGate(st, cfg, d, opts.Logger),
		Mover:      newMover(st, cfg, em, opts.Logger),
		Dispatcher: d,
		Emitter:    em,
	}
}

// Run moves the pointer to its starting position, starts the mover and the
// dispatcher worker, and then runs hook until ctx is cancelled or the hook
// fails. Background goroutines are stopped before Run returns.
func (e *Engine) Run(ctx context.Context, hook input.Hook) error {
	e.started = time.Now()
	if err := e.Dispatcher.Do(Intent{Action: ActionMove}); err != nil {
		e.log.Warn().Err(err).Msg("initial move failed")
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.Mover.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		e.Dispatcher.Run(ctx)
	}()

	err := hook.Run(ctx, e.Gate.Handle)
	cancel()
	e.Mover.Stop()
	wg.Wait()

	done, dropped := e.Dispatcher.Stats()
	e.log.Info().Dur("uptime", time.Since(e.started)).Int64("actions", done).Int64("dropped", dropped).Msg("engine stopped")
	return err
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return e.st.snapshot()
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}
