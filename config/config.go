// Package config loads the navigation tunables and key bindings.
package config

import (
	"errors"
	"time"

	"vinav/input"
)

// ErrConfigLoad marks a configuration that could not be used; the caller
// still receives the built-in defaults alongside it.
var ErrConfigLoad = errors.New("config load failed")

// Binding names a logical action that a key can be bound to.
type Binding int

const (
	BindLeft Binding = iota
	BindDown
	BindUp
	BindRight
	BindClick
	BindToggleMode
	BindRightClick
	BindSelectToggle
	BindGotoTop
	BindGotoBottom
	BindYank
	BindPaste
)

var bindingNames = [...]string{
	BindLeft:         "key_left",
	BindDown:         "key_down",
	BindUp:           "key_up",
	BindRight:        "key_right",
	BindClick:        "key_click",
	BindToggleMode:   "key_toggle_mode",
	BindRightClick:   "key_right_click",
	BindSelectToggle: "key_select_toggle",
	BindGotoTop:      "key_goto_top",
	BindGotoBottom:   "key_goto_bottom",
	BindYank:         "key_yank",
	BindPaste:        "key_paste",
}

// String returns the config field name, e.g. "key_left".
func (b Binding) String() string {
	if b >= 0 && int(b) < len(bindingNames) {
		return bindingNames[b]
	}
	return "key_unknown"
}

// Config is loaded once at startup and never modified afterwards.
type Config struct {
	InitialMoveStep        float64  `toml:"initial_move_step"`
	MaxMoveStep            *float64 `toml:"max_move_step"`
	AccelerationBase       float64  `toml:"acceleration_base"`
	AccelerationMultiplier float64  `toml:"acceleration_multiplier"`
	RepeatDelayMS          int      `toml:"repeat_delay_ms"`
	MoveDelayMS            int      `toml:"move_delay_ms"`
	PrecisionDivisor       float64  `toml:"precision_divisor"`

	KeyLeft         string `toml:"key_left"`
	KeyDown         string `toml:"key_down"`
	KeyUp           string `toml:"key_up"`
	KeyRight        string `toml:"key_right"`
	KeyClick        string `toml:"key_click"`
	KeyToggleMode   string `toml:"key_toggle_mode"`
	KeyRightClick   string `toml:"key_right_click"`
	KeySelectToggle string `toml:"key_select_toggle"`
	KeyGotoTop      string `toml:"key_goto_top"`
	KeyGotoBottom   string `toml:"key_goto_bottom"`
	KeyYank         string `toml:"key_yank"`
	KeyPaste        string `toml:"key_paste"`

	// Zero means ask the display.
	ScreenWidth  int `toml:"screen_width"`
	ScreenHeight int `toml:"screen_height"`

	ScrollLines int  `toml:"scroll_lines"`
	ScrollDelta int  `toml:"scroll_delta"`
	Beep        bool `toml:"beep"`

	// Filled in by Load.
	Bindings             map[Binding]input.Key `toml:"-"`
	GotoBottomNeedsShift bool                  `toml:"-"`
	Source               string                `toml:"-"`
	Warnings             []string              `toml:"-"`
}

// RepeatDelay is the mover tick period.
func (c *Config) RepeatDelay() time.Duration {
	return time.Duration(c.RepeatDelayMS) * time.Millisecond
}

// MoveDelay is the settle time after each synthetic event.
func (c *Config) MoveDelay() time.Duration {
	return time.Duration(c.MoveDelayMS) * time.Millisecond
}

// Key returns the resolved key for b.
func (c *Config) Key(b Binding) input.Key {
	return c.Bindings[b]
}

// Unbounded reports whether acceleration has no ceiling.
func (c *Config) Unbounded() bool {
	return c.MaxMoveStep == nil
}

func (c *Config) keyName(b Binding) *string {
	switch b {
	case BindLeft:
		return &c.KeyLeft
	case BindDown:
		return &c.KeyDown
	case BindUp:
		return &c.KeyUp
	case BindRight:
		return &c.KeyRight
	case BindClick:
		return &c.KeyClick
	case BindToggleMode:
		return &c.KeyToggleMode
	case BindRightClick:
		return &c.KeyRightClick
	case BindSelectToggle:
		return &c.KeySelectToggle
	case BindGotoTop:
		return &c.KeyGotoTop
	case BindGotoBottom:
		return &c.KeyGotoBottom
	case BindYank:
		return &c.KeyYank
	case BindPaste:
		return &c.KeyPaste
	}
	return nil
}

// KeyName returns the configured name for b as written by the user.
func (c *Config) KeyName(b Binding) string {
	if p := c.keyName(b); p != nil {
		return *p
	}
	return ""
}
