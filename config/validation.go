package config

import (
	"fmt"
	"strings"

	"vinav/input"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the numeric tunables. Key names are checked by resolve.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.InitialMoveStep < 0 {
		add("initial_move_step", "cannot be negative (got %g)", c.InitialMoveStep)
	}
	if c.MaxMoveStep != nil && *c.MaxMoveStep <= 0 {
		add("max_move_step", "must be positive when set (got %g)", *c.MaxMoveStep)
	}
	// below 1 the exponential term shrinks with hold time
	if c.AccelerationBase < 1 {
		add("acceleration_base", "must be at least 1 (got %g)", c.AccelerationBase)
	}
	if c.AccelerationMultiplier < 0 {
		add("acceleration_multiplier", "cannot be negative (got %g)", c.AccelerationMultiplier)
	}
	if c.RepeatDelayMS < 1 {
		add("repeat_delay_ms", "must be at least 1ms (got %d)", c.RepeatDelayMS)
	}
	if c.MoveDelayMS < 0 {
		add("move_delay_ms", "cannot be negative (got %d)", c.MoveDelayMS)
	}
	if c.PrecisionDivisor <= 0 {
		add("precision_divisor", "must be positive (got %g)", c.PrecisionDivisor)
	}
	if c.ScreenWidth < 0 || c.ScreenHeight < 0 {
		add("screen_width/screen_height", "cannot be negative")
	}
	if (c.ScreenWidth == 0) != (c.ScreenHeight == 0) {
		add("screen_width/screen_height", "set both or neither")
	}
	if c.ScrollLines < 1 {
		add("scroll_lines", "must be at least 1 (got %d)", c.ScrollLines)
	}
	if c.ScrollDelta < 1 {
		add("scroll_delta", "must be positive (got %d)", c.ScrollDelta)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// resolve turns every key name into an input.Key once, so nothing at
// runtime compares strings.
func (c *Config) resolve() error {
	var errs ValidationErrors
	bindings := make(map[Binding]input.Key, len(bindingNames))
	owner := make(map[input.Key]Binding, len(bindingNames))
	needsShift := false

	for b := BindLeft; b <= BindPaste; b++ {
		name := c.KeyName(b)
		k, shift, ok := input.LookupKey(name)
		if !ok {
			errs = append(errs, ValidationError{Field: b.String(), Message: fmt.Sprintf("unknown key name %q", name)})
			continue
		}
		if shift {
			if b != BindGotoBottom {
				errs = append(errs, ValidationError{Field: b.String(), Message: "shift_ prefix is only supported for key_goto_bottom"})
				continue
			}
			needsShift = true
		}
		if k == input.KeySpace || k.IsShift() {
			errs = append(errs, ValidationError{Field: b.String(), Message: fmt.Sprintf("%s is reserved as a modifier", k)})
			continue
		}
		if prev, dup := owner[k]; dup {
			// top and shift+bottom may share a key; shift tells them apart
			shared := prev == BindGotoTop && b == BindGotoBottom && needsShift
			if !shared {
				errs = append(errs, ValidationError{Field: b.String(), Message: fmt.Sprintf("key %s already bound to %s", k, prev)})
				continue
			}
		}
		owner[k] = b
		bindings[b] = k
	}

	if len(errs) > 0 {
		return errs
	}
	c.Bindings = bindings
	c.GotoBottomNeedsShift = needsShift
	return nil
}
