package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger = zerolog.Nop()
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
	level    = zerolog.InfoLevel
)

// SessionInfo describes one run, written once at startup.
type SessionInfo struct {
	Width, Height int
	ConfigSource  string
	Unbounded     bool
	Backend       string
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: VINAV_LOG_PATH environment variable
	envPath := os.Getenv("VINAV_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

// SetDebug enables Debug level, which includes per-tick mover tracing.
// Call before Init.
func SetDebug(on bool) {
	if on {
		level = zerolog.DebugLevel
	} else {
		level = zerolog.InfoLevel
	}
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05.000",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	diagLog = zerolog.Nop()
	logReady = false
}

// Logger returns the diagnostics logger for components that log structured
// fields themselves. Before Init it discards everything.
func Logger() zerolog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return diagLog
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func SessionStart(s SessionInfo) {
	if !logReady {
		return
	}
	ev := diagLog.Info().
		Int("width", s.Width).
		Int("height", s.Height).
		Str("backend", s.Backend).
		Bool("unbounded", s.Unbounded)
	if s.ConfigSource != "" {
		ev = ev.Str("config", s.ConfigSource)
	}
	ev.Msg("session_start")
}

func SessionEnd(uptime time.Duration, actions int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Dur("uptime", uptime).
		Int("actions", actions).
		Msg("session_end")
}
