package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is looked up in the working directory when no path is given.
const FileName = "vim_navigation_config.toml"

// EnvPrefix prefixes every environment override, e.g. VIMNAV_KEY_LEFT.
const EnvPrefix = "VIMNAV_"

// Path picks the config file: the -config flag, then VIMNAV_CONFIG, then
// FileName in the working directory, then $XDG_CONFIG_HOME/vinav/config.toml.
// It returns "" when none of them exists.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "vinav", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads path (if non-empty), applies environment overrides, validates
// and resolves key bindings. It always returns a usable config: when the
// file or overrides are bad the error wraps ErrConfigLoad and the returned
// config is the defaults, with environment overrides kept if they are valid
// on their own.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err == nil {
		return cfg, nil
	}
	loadErr := fmt.Errorf("%w: %w", ErrConfigLoad, err)

	if path != "" {
		if cfg, envErr := load(""); envErr == nil {
			return cfg, loadErr
		}
	}
	return Default(), loadErr
}

func load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("decode TOML %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("%s: unknown setting %q ignored", path, key.String()))
		}
		cfg.Source = path
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies VIMNAV_* environment variables on top of c.
// Names are the upper-cased TOML keys, e.g. VIMNAV_MAX_MOVE_STEP.
func (c *Config) ApplyEnvOverrides() error {
	var errs ValidationErrors
	for _, o := range c.overrides() {
		v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(o.key))
		if !ok || v == "" {
			continue
		}
		if err := o.set(strings.TrimSpace(v)); err != nil {
			errs = append(errs, ValidationError{Field: EnvPrefix + strings.ToUpper(o.key), Message: err.Error()})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type override struct {
	key string
	set func(string) error
}

func (c *Config) overrides() []override {
	o := []override{
		{"initial_move_step", setFloat(&c.InitialMoveStep)},
		{"max_move_step", func(v string) error {
			// "none" or "unlimited" lifts a cap set in the file
			if strings.EqualFold(v, "none") || strings.EqualFold(v, "unlimited") {
				c.MaxMoveStep = nil
				return nil
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			c.MaxMoveStep = &f
			return nil
		}},
		{"acceleration_base", setFloat(&c.AccelerationBase)},
		{"acceleration_multiplier", setFloat(&c.AccelerationMultiplier)},
		{"repeat_delay_ms", setInt(&c.RepeatDelayMS)},
		{"move_delay_ms", setInt(&c.MoveDelayMS)},
		{"precision_divisor", setFloat(&c.PrecisionDivisor)},
		{"screen_width", setInt(&c.ScreenWidth)},
		{"screen_height", setInt(&c.ScreenHeight)},
		{"scroll_lines", setInt(&c.ScrollLines)},
		{"scroll_delta", setInt(&c.ScrollDelta)},
		{"beep", func(v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.Beep = b
			return nil
		}},
	}
	for b := BindLeft; b <= BindPaste; b++ {
		p := c.keyName(b)
		o = append(o, override{b.String(), func(v string) error {
			*p = v
			return nil
		}})
	}
	return o
}

func setFloat(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}
