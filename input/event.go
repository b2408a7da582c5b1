// Package input is the OS input collaborator: it intercepts raw keyboard
// events, injects synthetic pointer and key events, and reports the display
// size. The Linux backend works on evdev and uinput directly.
package input

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDisplayQuery means the display bounds could not be determined.
	ErrDisplayQuery = errors.New("cannot query display size")
	// ErrHookRegistration means the global intercept could not be installed.
	ErrHookRegistration = errors.New("cannot install input hook")
	// ErrUnsupported is returned by backends that do not exist on this platform.
	ErrUnsupported = errors.New("not supported on this platform")
)

// Kind classifies a raw event.
type Kind uint8

const (
	KeyPress Kind = iota
	KeyRelease
	KeyRepeat
	Other
)

func (k Kind) String() string {
	switch k {
	case KeyPress:
		return "press"
	case KeyRelease:
		return "release"
	case KeyRepeat:
		return "repeat"
	}
	return "other"
}

// Event is one raw input event as seen by the hook.
type Event struct {
	Kind Kind
	Key  Key
	Time time.Time
}

// Decision is the hook's verdict for an event.
type Decision uint8

const (
	Forward Decision = iota
	Suppress
)

func (d Decision) String() string {
	if d == Suppress {
		return "suppress"
	}
	return "forward"
}

// Handler decides the fate of every intercepted event. It is called
// synchronously, possibly from several goroutines at once, and must return
// quickly: the event is held back from every other application until it does.
type Handler func(Event) Decision

// Hook installs a global event intercept. Run blocks until ctx is cancelled
// or the intercept fails.
type Hook interface {
	Run(ctx context.Context, h Handler) error
}

// Injector delivers synthetic events to the OS.
type Injector interface {
	MoveTo(x, y int) error
	Button(b Button, down bool) error
	// Wheel scrolls by dx, dy in 1/120ths of a notch; positive dy scrolls up.
	Wheel(dx, dy int) error
	Key(k Key, down bool) error
	Close() error
}
