package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"vinav/beep"
	"vinav/clipboard"
	"vinav/config"
	"vinav/doctor"
	"vinav/engine"
	"vinav/input"
	"vinav/log"
	"vinav/shutdown"
)

var version = "dev"

func run() {
	configFlag := flag.String("config", "", "config file path (default: $VIMNAV_CONFIG, ./"+config.FileName+", then the user config dir)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	debugFlag := flag.Bool("debug", false, "Log every key decision and mover tick")
	tuiFlag := flag.Bool("tui", false, "Show a live status view instead of the static banner")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("vinav %s\n", version)
		os.Exit(0)
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *doctorFlag {
		os.Exit(doctor.Run(*configFlag))
	}

	log.SetDebug(*debugFlag)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log files: %v\n", err)
	}
	defer log.Close()

	cfg, err := config.Load(config.Path(*configFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\nUsing default configuration\n", err)
		log.Warnf("config: %v", err)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		log.Warn(w)
	}
	if cfg.Unbounded() {
		log.Warn("max_move_step unset: acceleration is unbounded")
	}
	if cfg.Beep {
		beep.Init()
	} else {
		beep.Disable()
	}

	width, height := cfg.ScreenWidth, cfg.ScreenHeight
	if width == 0 {
		width, height, err = input.DisplaySize()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			log.Error(err.Error())
			os.Exit(1)
		}
	}

	hook, inj, err := input.Open(width, height)
	if err != nil {
		fatalHook(err)
	}
	defer inj.Close()

	eng := engine.New(cfg, engine.Options{
		Width:     width,
		Height:    height,
		Injector:  inj,
		Logger:    log.Logger(),
		Clipboard: clipboard.System{},
		OnModeChange: func(m engine.Mode) {
			beep.Mode(m == engine.ModeTyping)
		},
	})

	log.SessionStart(log.SessionInfo{
		Width:        width,
		Height:       height,
		ConfigSource: cfg.Source,
		Unbounded:    cfg.Unbounded(),
		Backend:      backendName,
	})
	started := time.Now()

	ctx, cancel := shutdown.Context(context.Background())
	defer cancel()

	useTUI := *tuiFlag && term.IsTerminal(int(os.Stdout.Fd()))
	if *tuiFlag && !useTUI {
		fmt.Fprintln(os.Stderr, "Warning: stdout is not a terminal, showing banner instead of -tui")
		log.Info("-tui ignored: stdout is not a terminal")
	}

	var program *tea.Program
	if useTUI {
		program = newTUIProgram(eng, version)
		go func() {
			if _, err := program.Run(); err != nil {
				log.Errorf("tui: %v", err)
			}
			cancel()
		}()
	} else {
		fmt.Print(renderBanner(cfg, width, height))
	}

	err = eng.Run(ctx, hook)
	if program != nil {
		program.Quit()
		program.Wait()
	}
	if err == nil {
		log.Info("shutdown requested")
	}
	done, _ := eng.Dispatcher.Stats()
	log.SessionEnd(time.Since(started), int(done))
	if err != nil {
		inj.Close()
		fatalHook(err)
	}
}

func fatalHook(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	log.Errorf("hook: %v", err)
	if errors.Is(err, input.ErrUnsupported) {
		fmt.Fprintln(os.Stderr, "The global keyboard intercept is only implemented for Linux (evdev + uinput).")
	} else {
		fmt.Fprintln(os.Stderr, hookHint)
	}
	log.Close()
	os.Exit(1)
}
