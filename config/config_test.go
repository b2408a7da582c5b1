package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinav/input"
)

// clearEnv blanks every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvPrefix+"CONFIG", "")
	for _, o := range defaults().overrides() {
		t.Setenv(EnvPrefix+strings.ToUpper(o.key), "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, 1.0, c.InitialMoveStep)
	assert.Nil(t, c.MaxMoveStep)
	assert.True(t, c.Unbounded())
	assert.Equal(t, 2.0, c.AccelerationBase)
	assert.Equal(t, 50.0, c.AccelerationMultiplier)
	assert.Equal(t, 30, c.RepeatDelayMS)
	assert.Equal(t, 15, c.MoveDelayMS)
	assert.Equal(t, 10.0, c.PrecisionDivisor)
	assert.Equal(t, 3, c.ScrollLines)
	assert.Equal(t, 120, c.ScrollDelta)

	want := map[Binding]input.Key{
		BindLeft:         input.KeyH,
		BindDown:         input.KeyJ,
		BindUp:           input.KeyK,
		BindRight:        input.KeyL,
		BindClick:        input.KeyEnter,
		BindToggleMode:   input.KeyEsc,
		BindRightClick:   input.KeyI,
		BindSelectToggle: input.KeyV,
		BindGotoTop:      input.KeyG,
		BindGotoBottom:   input.KeyG,
		BindYank:         input.KeyY,
		BindPaste:        input.KeyP,
	}
	assert.Equal(t, want, c.Bindings)
	assert.True(t, c.GotoBottomNeedsShift)
}

func TestLoadNoFile(t *testing.T) {
	clearEnv(t)
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", c.Source)
	assert.Equal(t, Default().Bindings, c.Bindings)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
initial_move_step = 2.5
max_move_step = 40.0
repeat_delay_ms = 20
key_left = "a"
key_click = "Space_unused"
`)
	_, err := Load(path)
	require.Error(t, err, "space_unused is not a key")

	path = writeConfig(t, `
initial_move_step = 2.5
max_move_step = 40.0
repeat_delay_ms = 20
key_left = "a"
key_click = "enter"
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Source)
	assert.Equal(t, 2.5, c.InitialMoveStep)
	require.NotNil(t, c.MaxMoveStep)
	assert.Equal(t, 40.0, *c.MaxMoveStep)
	assert.Equal(t, 20, c.RepeatDelayMS)
	assert.Equal(t, input.KeyA, c.Key(BindLeft))
	assert.Equal(t, input.KeyEnter, c.Key(BindClick))
	// untouched settings keep their defaults
	assert.Equal(t, 50.0, c.AccelerationMultiplier)
	assert.Equal(t, input.KeyJ, c.Key(BindDown))
}

func TestLoadUnknownSettingWarns(t *testing.T) {
	clearEnv(t)
	c, err := Load(writeConfig(t, "acceleration_bsae = 3.0\n"))
	require.NoError(t, err)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0], "acceleration_bsae")
}

func TestLoadMalformedFallsBack(t *testing.T) {
	clearEnv(t)
	c, err := Load(writeConfig(t, "initial_move_step = [oops"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigLoad))
	require.NotNil(t, c)
	assert.Equal(t, 1.0, c.InitialMoveStep)
	assert.Equal(t, input.KeyH, c.Key(BindLeft))
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	clearEnv(t)
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, ErrConfigLoad)
	assert.Equal(t, Default().Bindings, c.Bindings)
}

func TestLoadInvalidValueFallsBack(t *testing.T) {
	clearEnv(t)
	c, err := Load(writeConfig(t, "acceleration_base = 0.5\nrepeat_delay_ms = 0\n"))
	require.ErrorIs(t, err, ErrConfigLoad)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	assert.Equal(t, 2.0, c.AccelerationBase)
	assert.Equal(t, 30, c.RepeatDelayMS)
}

func TestLoadUnknownKeyName(t *testing.T) {
	clearEnv(t)
	c, err := Load(writeConfig(t, `key_yank = "hyper"`))
	require.ErrorIs(t, err, ErrConfigLoad)
	assert.Contains(t, err.Error(), "key_yank")
	assert.Equal(t, input.KeyY, c.Key(BindYank))
}

func TestEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIMNAV_INITIAL_MOVE_STEP", "3")
	t.Setenv("VIMNAV_MAX_MOVE_STEP", "25")
	t.Setenv("VIMNAV_KEY_LEFT", "s")
	t.Setenv("VIMNAV_BEEP", "true")

	c, err := Load(writeConfig(t, "initial_move_step = 2.0\n"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.InitialMoveStep, "env wins over file")
	require.NotNil(t, c.MaxMoveStep)
	assert.Equal(t, 25.0, *c.MaxMoveStep)
	assert.Equal(t, input.KeyS, c.Key(BindLeft))
	assert.True(t, c.Beep)
}

func TestEnvLiftsCap(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIMNAV_MAX_MOVE_STEP", "unlimited")
	c, err := Load(writeConfig(t, "max_move_step = 10.0\n"))
	require.NoError(t, err)
	assert.Nil(t, c.MaxMoveStep)
}

func TestEnvKeptWhenFileBad(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIMNAV_REPEAT_DELAY_MS", "50")
	c, err := Load(writeConfig(t, "not toml at all ="))
	require.ErrorIs(t, err, ErrConfigLoad)
	assert.Equal(t, 50, c.RepeatDelayMS)
}

func TestEnvBadNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIMNAV_MOVE_DELAY_MS", "fast")
	c, err := Load("")
	require.ErrorIs(t, err, ErrConfigLoad)
	assert.Contains(t, err.Error(), "VIMNAV_MOVE_DELAY_MS")
	assert.Equal(t, 15, c.MoveDelayMS)
}

func TestBindingConflicts(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"duplicate direction", `key_up = "h"`, false},
		{"top and plain bottom share", `key_goto_bottom = "g"`, false},
		{"separate bottom key", `key_goto_bottom = "b"`, true},
		{"shift on other binding", `key_yank = "shift_y"`, false},
		{"space reserved", `key_click = "space"`, false},
		{"shift reserved", `key_paste = "shift"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrConfigLoad)
			}
		})
	}
}

func TestSeparateBottomKeyNeedsNoShift(t *testing.T) {
	clearEnv(t)
	c, err := Load(writeConfig(t, `key_goto_bottom = "b"`))
	require.NoError(t, err)
	assert.False(t, c.GotoBottomNeedsShift)
	assert.Equal(t, input.KeyB, c.Key(BindGotoBottom))
}

func TestPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	assert.Equal(t, "/etc/x.toml", Path("/etc/x.toml"))
	assert.Equal(t, "", Path(""))

	require.NoError(t, os.WriteFile(FileName, []byte(""), 0644))
	assert.Equal(t, FileName, Path(""))

	t.Setenv("VIMNAV_CONFIG", "/from/env.toml")
	assert.Equal(t, "/from/env.toml", Path(""))
}

func TestDurations(t *testing.T) {
	c := Default()
	assert.Equal(t, "30ms", c.RepeatDelay().String())
	assert.Equal(t, "15ms", c.MoveDelay().String())
}

func TestBindingString(t *testing.T) {
	assert.Equal(t, "key_goto_bottom", BindGotoBottom.String())
	assert.Equal(t, "key_unknown", Binding(99).String())
}
