package engine

import (
	"math"
	"time"

	"vinav/config"
)

// Speed returns the per-tick step in pixels for a key held for hold:
//
//	initial + multiplier * base^seconds
//
// divided by the precision divisor when precision is on, then capped at
// MaxMoveStep if one is configured. At hold 0 the exponential term is 1, so
// movement starts at initial+multiplier rather than ramping from rest.
func Speed(hold time.Duration, cfg *config.Config, precision bool) float64 {
	s := cfg.InitialMoveStep + cfg.AccelerationMultiplier*math.Pow(cfg.AccelerationBase, hold.Seconds())
	if precision {
		s /= cfg.PrecisionDivisor
	}
	if cfg.MaxMoveStep != nil && s > *cfg.MaxMoveStep {
		s = *cfg.MaxMoveStep
	}
	return s
}
