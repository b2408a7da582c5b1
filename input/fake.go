package input

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FakeHook is a Hook driven by the test: Press, Release and Repeat call the
// installed handler synchronously and return its decision.
type FakeHook struct {
	mu      sync.Mutex
	handler Handler
	ready   chan struct{}
	once    sync.Once
	Err     error
}

func NewFakeHook() *FakeHook {
	return &FakeHook{ready: make(chan struct{})}
}

func (f *FakeHook) Run(ctx context.Context, h Handler) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	f.handler = h
	f.mu.Unlock()
	f.once.Do(func() { close(f.ready) })
	<-ctx.Done()
	return nil
}

// Ready is closed once Run has installed a handler.
func (f *FakeHook) Ready() <-chan struct{} { return f.ready }

func (f *FakeHook) Send(ev Event) Decision {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return Forward
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	return h(ev)
}

func (f *FakeHook) Press(k Key) Decision   { return f.Send(Event{Kind: KeyPress, Key: k}) }
func (f *FakeHook) Release(k Key) Decision { return f.Send(Event{Kind: KeyRelease, Key: k}) }
func (f *FakeHook) Repeat(k Key) Decision  { return f.Send(Event{Kind: KeyRepeat, Key: k}) }

// Call is one recorded injector call, e.g. "move 10,20", "button left down",
// "wheel 0,120" or "key ctrl up".
type Call string

// FakeInjector records every call. When Fail is set, each call is recorded
// and then fails with it.
type FakeInjector struct {
	mu     sync.Mutex
	calls  []Call
	Fail   error
	closed bool
}

func NewFakeInjector() *FakeInjector {
	return &FakeInjector{}
}

func (f *FakeInjector) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.Fail
}

func (f *FakeInjector) MoveTo(x, y int) error {
	return f.record(Call(fmt.Sprintf("move %d,%d", x, y)))
}

func (f *FakeInjector) Button(b Button, down bool) error {
	return f.record(Call(fmt.Sprintf("button %s %s", b, upDown(down))))
}

func (f *FakeInjector) Wheel(dx, dy int) error {
	return f.record(Call(fmt.Sprintf("wheel %d,%d", dx, dy)))
}

func (f *FakeInjector) Key(k Key, down bool) error {
	return f.record(Call(fmt.Sprintf("key %s %s", k, upDown(down))))
}

func (f *FakeInjector) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Calls returns a copy of everything recorded so far.
func (f *FakeInjector) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeInjector) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeInjector) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func upDown(down bool) string {
	if down {
		return "down"
	}
	return "up"
}
