package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinav/config"
	"vinav/input"
)

var t0 = time.Unix(1_700_000_000, 0)

// newTestEngine builds an engine on a 1920x1080 fake display with no settle
// delay. The dispatcher worker is not started; tests drain its queue.
func newTestEngine(t *testing.T, tweak func(*config.Config)) (*Engine, *input.FakeInjector) {
	t.Helper()
	cfg := config.Default()
	cfg.MoveDelayMS = 0
	if tweak != nil {
		tweak(cfg)
	}
	inj := input.NewFakeInjector()
	e := New(cfg, Options{
		Width:    1920,
		Height:   1080,
		Injector: inj,
		Logger:   zerolog.Nop(),
	})
	e.Mover.now = func() time.Time { return t0 }
	return e, inj
}

func press(e *Engine, k input.Key) input.Decision {
	return e.Gate.Handle(input.Event{Kind: input.KeyPress, Key: k, Time: t0})
}

func release(e *Engine, k input.Key) input.Decision {
	return e.Gate.Handle(input.Event{Kind: input.KeyRelease, Key: k, Time: t0})
}

func repeat(e *Engine, k input.Key, at time.Time) input.Decision {
	return e.Gate.Handle(input.Event{Kind: input.KeyRepeat, Key: k, Time: at})
}

// drain returns every queued intent without running it.
func drain(e *Engine) []Intent {
	var out []Intent
	for {
		select {
		case in := <-e.Dispatcher.queue:
			out = append(out, in)
		default:
			return out
		}
	}
}

func calls(inj *input.FakeInjector) []string {
	var out []string
	for _, c := range inj.Calls() {
		out = append(out, string(c))
	}
	return out
}

func TestEngineStartsCentred(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := e.Snapshot()
	assert.Equal(t, 960, s.X)
	assert.Equal(t, 540, s.Y)
	assert.Equal(t, ModeNavigation, s.Mode)
}

func TestEngineRun(t *testing.T) {
	e, inj := newTestEngine(t, func(c *config.Config) { c.RepeatDelayMS = 5 })
	e.Mover.now = time.Now
	hook := input.NewFakeHook()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx, hook) }()
	<-hook.Ready()

	require.Equal(t, []string{"move 960,540"}, calls(inj), "initial move to centre")

	assert.Equal(t, input.Suppress, hook.Press(input.KeyL))
	require.Eventually(t, func() bool { return e.Snapshot().X > 960 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, input.Suppress, hook.Release(input.KeyL))

	assert.Equal(t, input.Suppress, hook.Press(input.KeyEnter))
	require.Eventually(t, func() bool {
		for _, c := range inj.Calls() {
			if c == "button left up" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, input.Forward, hook.Press(input.KeyQ))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestEngineRunHookFailure(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	hook := input.NewFakeHook()
	hook.Err = input.ErrHookRegistration

	err := e.Run(context.Background(), hook)
	assert.ErrorIs(t, err, input.ErrHookRegistration)
}
