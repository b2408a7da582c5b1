package config

// Default returns the built-in configuration with bindings resolved.
func Default() *Config {
	c := defaults()
	if err := c.resolve(); err != nil {
		panic("config: built-in defaults do not resolve: " + err.Error())
	}
	return c
}

func defaults() *Config {
	return &Config{
		InitialMoveStep:        1.0,
		MaxMoveStep:            nil,
		AccelerationBase:       2.0,
		AccelerationMultiplier: 50.0,
		RepeatDelayMS:          30,
		MoveDelayMS:            15,
		PrecisionDivisor:       10.0,

		KeyLeft:         "h",
		KeyDown:         "j",
		KeyUp:           "k",
		KeyRight:        "l",
		KeyClick:        "return",
		KeyToggleMode:   "escape",
		KeyRightClick:   "i",
		KeySelectToggle: "v",
		KeyGotoTop:      "g",
		KeyGotoBottom:   "shift_g",
		KeyYank:         "y",
		KeyPaste:        "p",

		ScrollLines: 3,
		ScrollDelta: 120,
	}
}
