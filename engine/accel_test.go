package engine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vinav/config"
)

func scenarioConfig() *config.Config {
	c := config.Default()
	c.InitialMoveStep = 1.0
	c.AccelerationMultiplier = 50.0
	c.AccelerationBase = 2.0
	c.MaxMoveStep = nil
	return c
}

func TestSpeedScenarioA(t *testing.T) {
	c := scenarioConfig()
	assert.InDelta(t, 51.0, Speed(0, c, false), 1e-9)
	assert.InDelta(t, 101.0, Speed(time.Second, c, false), 1e-9)
}

func TestSpeedScenarioB(t *testing.T) {
	c := scenarioConfig()
	limit := 25.0
	c.MaxMoveStep = &limit
	assert.Equal(t, 25.0, Speed(0, c, false))
	assert.Equal(t, 25.0, Speed(time.Second, c, false))
}

func TestSpeedMonotonic(t *testing.T) {
	c := scenarioConfig()
	for _, precision := range []bool{false, true} {
		prev := math.Inf(-1)
		for h := time.Duration(0); h <= 20*time.Second; h += 37 * time.Millisecond {
			s := Speed(h, c, precision)
			if s < prev {
				t.Fatalf("speed decreased at %v (precision=%v): %g < %g", h, precision, s, prev)
			}
			prev = s
		}
	}
}

func TestSpeedCapHolds(t *testing.T) {
	c := scenarioConfig()
	limit := 80.0
	c.MaxMoveStep = &limit
	for h := time.Duration(0); h <= 60*time.Second; h += 250 * time.Millisecond {
		assert.LessOrEqual(t, Speed(h, c, false), limit)
		assert.LessOrEqual(t, Speed(h, c, true), limit)
	}
}

func TestSpeedUnbounded(t *testing.T) {
	c := scenarioConfig()
	assert.Greater(t, Speed(30*time.Second, c, false), 1e9)
}

func TestSpeedPrecisionScaling(t *testing.T) {
	c := scenarioConfig()
	for _, h := range []time.Duration{0, 300 * time.Millisecond, time.Second, 4 * time.Second} {
		normal := Speed(h, c, false)
		precise := Speed(h, c, true)
		assert.InDelta(t, normal/c.PrecisionDivisor, precise, 1e-9, "hold %v", h)
	}
}

func TestSpeedPrecisionBeforeCap(t *testing.T) {
	c := scenarioConfig()
	limit := 25.0
	c.MaxMoveStep = &limit
	// 51/10 is below the cap, so precision output is not clamped
	assert.InDelta(t, 5.1, Speed(0, c, true), 1e-9)
}
