package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vinav/input"
)

// ErrInjection wraps every failed synthetic event.
var ErrInjection = errors.New("event injection failed")

// Emitter injects synthetic events one at a time and waits the settle delay
// after each, so the OS does not coalesce or drop rapid events. Its lock
// covers only the injector call, never the sleep.
type Emitter struct {
	mu    sync.Mutex
	inj   input.Injector
	delay time.Duration
	sleep func(time.Duration)
	log   zerolog.Logger
}

func newEmitter(inj input.Injector, delay time.Duration, log zerolog.Logger) *Emitter {
	return &Emitter{inj: inj, delay: delay, sleep: time.Sleep, log: log}
}

func (e *Emitter) emit(what string, call func() error) error {
	e.mu.Lock()
	err := call()
	e.mu.Unlock()
	if err != nil {
		e.log.Error().Err(err).Str("event", what).Msg("injection failed")
		return fmt.Errorf("%w: %s: %w", ErrInjection, what, err)
	}
	if e.delay > 0 {
		e.sleep(e.delay)
	}
	return nil
}

func (e *Emitter) MoveTo(x, y int) error {
	return e.emit(fmt.Sprintf("move %d,%d", x, y), func() error { return e.inj.MoveTo(x, y) })
}

func (e *Emitter) Button(b input.Button, down bool) error {
	return e.emit("button "+b.String()+" "+upDown(down), func() error { return e.inj.Button(b, down) })
}

func (e *Emitter) Wheel(dx, dy int) error {
	return e.emit(fmt.Sprintf("wheel %d,%d", dx, dy), func() error { return e.inj.Wheel(dx, dy) })
}

func (e *Emitter) Key(k input.Key, down bool) error {
	return e.emit("key "+k.String()+" "+upDown(down), func() error { return e.inj.Key(k, down) })
}

func upDown(down bool) string {
	if down {
		return "down"
	}
	return "up"
}
