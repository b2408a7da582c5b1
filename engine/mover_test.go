package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinav/config"
	"vinav/input"
)

func TestMoverSingleAxis(t *testing.T) {
	e, inj := newTestEngine(t, nil)
	press(e, input.KeyH)

	require.True(t, e.Mover.Tick())
	// hold 0: 1 + 50*2^0 = 51
	assert.Equal(t, []string{"move 909,540"}, calls(inj))
	assert.InDelta(t, 51.0, e.Snapshot().Held[input.KeyH], 1e-9)
}

func TestMoverCollapsesAxes(t *testing.T) {
	e, inj := newTestEngine(t, nil)
	press(e, input.KeyL)
	press(e, input.KeyJ)

	require.True(t, e.Mover.Tick())
	assert.Equal(t, []string{"move 1011,591"}, calls(inj), "one event for both axes")
}

func TestMoverAccelerates(t *testing.T) {
	e, inj := newTestEngine(t, nil)
	press(e, input.KeyK)
	e.Mover.now = func() time.Time { return t0.Add(time.Second) }

	e.Mover.Tick()
	// hold 1s: 1 + 50*2 = 101
	assert.Equal(t, []string{"move 960,439"}, calls(inj))
}

func TestMoverClampScenarioC(t *testing.T) {
	e, inj := newTestEngine(t, func(c *config.Config) {
		c.InitialMoveStep = 1950 // 1950 + 50*2^0 = 2000
	})
	press(e, input.KeyH)

	e.Mover.Tick()
	s := e.Snapshot()
	assert.Equal(t, 0, s.X)
	assert.Equal(t, []string{"move 0,540"}, calls(inj))
}

func TestMoverClampAllEdges(t *testing.T) {
	e, _ := newTestEngine(t, func(c *config.Config) { c.InitialMoveStep = 5000 })
	for _, k := range []input.Key{input.KeyH, input.KeyJ, input.KeyK, input.KeyL} {
		press(e, k)
		e.Mover.Tick()
		s := e.Snapshot()
		assert.GreaterOrEqual(t, s.X, 0)
		assert.LessOrEqual(t, s.X, 1919)
		assert.GreaterOrEqual(t, s.Y, 0)
		assert.LessOrEqual(t, s.Y, 1079)
		release(e, k)
	}
}

func TestMoverNoEventAtEdge(t *testing.T) {
	e, inj := newTestEngine(t, func(c *config.Config) { c.InitialMoveStep = 5000 })
	press(e, input.KeyH)
	require.True(t, e.Mover.Tick())
	inj.Reset()

	assert.False(t, e.Mover.Tick(), "already at x=0")
	assert.Empty(t, inj.Calls())
}

func TestMoverPrecision(t *testing.T) {
	e, inj := newTestEngine(t, nil)
	press(e, input.KeySpace)
	press(e, input.KeyH)

	e.Mover.Tick()
	// 51/10 = 5.1 -> 954.9 -> 955
	assert.Equal(t, []string{"move 955,540"}, calls(inj))
}

func TestMoverIdleWithoutKeys(t *testing.T) {
	e, inj := newTestEngine(t, nil)
	assert.False(t, e.Mover.Tick())
	assert.Empty(t, inj.Calls())
}

func TestMoverTypingModeNoEvents(t *testing.T) {
	e, inj := newTestEngine(t, nil)
	press(e, input.KeyEsc)
	press(e, input.KeyH) // forwarded, not tracked

	assert.False(t, e.Mover.Tick())
	assert.Empty(t, inj.Calls())
}

func TestMoverDriftPrevention(t *testing.T) {
	e, inj := newTestEngine(t, nil)
	press(e, input.KeyL)
	press(e, input.KeyEsc) // typing, release of l never arrives
	press(e, input.KeyEsc) // back to navigation

	assert.False(t, e.Mover.Tick())
	assert.Empty(t, inj.Calls())
	assert.Equal(t, 960, e.Snapshot().X)
}

func TestMoverInjectionFailureKeepsRunning(t *testing.T) {
	e, inj := newTestEngine(t, nil)
	inj.Fail = errors.New("device gone")
	press(e, input.KeyH)

	assert.False(t, e.Mover.Tick())
	assert.Equal(t, 909, e.Snapshot().X)

	inj.Fail = nil
	assert.True(t, e.Mover.Tick())
}

func TestMoverRunStops(t *testing.T) {
	e, _ := newTestEngine(t, func(c *config.Config) { c.RepeatDelayMS = 1 })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Mover.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mover ignored cancellation")
	}

	e.Mover.Stop()
	done = make(chan struct{})
	go func() {
		e.Mover.Run(context.Background())
		close(done)
	}()
	require.Eventually(t, func() bool { return e.Mover.running.Load() }, time.Second, time.Millisecond)
	e.Mover.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mover ignored Stop")
	}
}
