package doctor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"vinav/clipboard"
	"vinav/config"
	"vinav/input"
)

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(configPath string) int {
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("vinav doctor - interactive system diagnostics")
	fmt.Println("==============================================")

	cfg := checkConfig(configPath)
	w, h, ok := checkDisplay(cfg)
	allPass := ok

	if !checkDevices() {
		allPass = false
	}

	var inj input.Injector
	if allPass {
		hook, i, err := input.Open(w, h)
		if err != nil {
			fmt.Printf("  FAIL: %v\n", err)
			allPass = false
		} else {
			inj = i
			defer inj.Close()
			if !checkIntercept(hook) {
				allPass = false
			}
		}
	}
	if allPass && !checkPointer(inj, w, h) {
		allPass = false
	}
	if allPass && !checkClipboard(inj) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
	} else {
		fmt.Println("Some checks failed. See details above.")
	}

	if allPass {
		return 0
	}
	return 1
}

func checkConfig(path string) *config.Config {
	fmt.Println()
	fmt.Println("[1/6] Configuration")

	cfg, err := config.Load(config.Path(path))
	if err != nil {
		fmt.Printf("  WARN: %v\n", err)
		fmt.Println("  Using built-in defaults")
	} else if cfg.Source != "" {
		fmt.Printf("  PASS: loaded %s\n", cfg.Source)
	} else {
		fmt.Println("  PASS: no config file, using defaults")
	}
	for _, w := range cfg.Warnings {
		fmt.Printf("  WARN: %s\n", w)
	}
	if cfg.Unbounded() {
		fmt.Println("  WARN: max_move_step is unset, pointer speed has no ceiling")
	}
	return cfg
}

func checkDisplay(cfg *config.Config) (int, int, bool) {
	fmt.Println()
	fmt.Println("[2/6] Display size")

	if cfg.ScreenWidth > 0 {
		fmt.Printf("  PASS: %dx%d (from config)\n", cfg.ScreenWidth, cfg.ScreenHeight)
		return cfg.ScreenWidth, cfg.ScreenHeight, true
	}
	w, h, err := input.DisplaySize()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return 0, 0, false
	}
	fmt.Printf("  PASS: %dx%d\n", w, h)
	return w, h, true
}

func checkDevices() bool {
	fmt.Println()
	fmt.Println("[3/6] Input devices")

	msg, err := input.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  PASS: %s\n", msg)
	return true
}

func checkIntercept(hook input.Hook) bool {
	fmt.Println()
	fmt.Println("[4/6] Keyboard intercept")
	fmt.Println("Press any key...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan input.Key, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- hook.Run(ctx, func(ev input.Event) input.Decision {
			if ev.Kind == input.KeyPress {
				select {
				case got <- ev.Key:
				default:
				}
			}
			return input.Forward
		})
	}()

	select {
	case k := <-got:
		cancel()
		<-errc
		fmt.Printf("  PASS: saw %s\n", k)
		return true
	case err := <-errc:
		fmt.Printf("  FAIL: %v\n", err)
		return false
	case <-ctx.Done():
		<-errc
		fmt.Println("  FAIL: timeout waiting for a key")
		return false
	}
}

func checkPointer(inj input.Injector, w, h int) bool {
	fmt.Println()
	fmt.Println("[5/6] Pointer injection")

	if err := inj.MoveTo(w/2, h/2); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Println("  PASS: pointer moved to the centre of the screen")
	return true
}

func checkClipboard(inj input.Injector) bool {
	fmt.Println()
	fmt.Println("[6/6] Clipboard and paste chord")

	testStr := "vinav-doctor-test"
	if err := clipboard.Copy(testStr); err != nil {
		if errors.Is(err, clipboard.ErrUnavailable) {
			fmt.Println("  WARN: no clipboard utility; yank read-back disabled (install xclip, xsel or wl-clipboard)")
			return true
		}
		fmt.Printf("  FAIL: clipboard copy failed: %v\n", err)
		return false
	}
	if got, err := clipboard.Read(); err != nil || got != testStr {
		fmt.Printf("  FAIL: clipboard read back %q, %v\n", got, err)
		return false
	}

	fmt.Println("Focus on a text editor window...")
	for i := 5; i > 0; i-- {
		fmt.Printf("  %d...\n", i)
		time.Sleep(1 * time.Second)
	}

	accel := input.Accelerator()
	for _, step := range []struct {
		k    input.Key
		down bool
	}{{accel, true}, {input.KeyV, true}, {input.KeyV, false}, {accel, false}} {
		if err := inj.Key(step.k, step.down); err != nil {
			fmt.Printf("  FAIL: paste chord failed: %v\n", err)
			return false
		}
		time.Sleep(15 * time.Millisecond)
	}

	// Reset terminal and use fresh reader for confirmation
	resetTerminal()
	confirmReader := bufio.NewReader(os.Stdin)
	fmt.Println()
	fmt.Printf("Did the text %q appear? [y/n]: ", testStr)
	confirm, _ := confirmReader.ReadString('\n')
	confirm = strings.TrimSpace(strings.ToLower(confirm))

	if confirm != "y" && confirm != "yes" {
		fmt.Println("  FAIL: paste not confirmed")
		return false
	}
	fmt.Println("  PASS: clipboard and paste verified by user")
	return true
}
