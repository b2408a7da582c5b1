//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

const (
	evIOCGrab = 0x40044590 // EVIOCGRAB
	// EVIOCGKEY(len), len covering every key code up to keyMax
	keyBitmapLen = 0x2ff/8 + 1
	evIOCGKey    = 0x80000000 | keyBitmapLen<<16 | 0x4518
)

const remediation = "run: sudo usermod -aG input $USER, then re-login; " +
	"and make /dev/uinput writable: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput"

// Open creates the virtual devices and returns the evdev hook together with
// the injector it forwards through.
func Open(width, height int) (Hook, Injector, error) {
	inj, err := newUinputInjector(width, height)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v (%s)", ErrHookRegistration, err, remediation)
	}
	return &evdevHook{kbd: inj.kbd}, inj, nil
}

// evdevHook grabs every physical keyboard so no other reader sees its
// events, and re-emits the events the handler forwards through kbd.
type evdevHook struct {
	kbd   *uinputDevice
	files []*os.File
	once  sync.Once
}

func (h *evdevHook) Run(ctx context.Context, handler Handler) error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("%w: finding keyboards: %v", ErrHookRegistration, err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("%w: no keyboard devices found (is user in 'input' group?)", ErrHookRegistration)
	}

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		waitKeysReleased(f, 2*time.Second)
		if err := unix.IoctlSetInt(int(f.Fd()), evIOCGrab, 1); err != nil {
			f.Close()
			continue
		}
		h.files = append(h.files, f)
	}
	if len(h.files) == 0 {
		return fmt.Errorf("%w: could not grab any keyboard device (%s)", ErrHookRegistration, remediation)
	}
	defer h.release()

	var wg sync.WaitGroup
	for _, f := range h.files {
		wg.Add(1)
		go func(f *os.File) {
			defer wg.Done()
			h.readEvents(f, handler)
		}(f)
	}
	lost := make(chan struct{})
	go func() {
		wg.Wait()
		close(lost)
	}()

	select {
	case <-ctx.Done():
		return nil
	case <-lost:
		return fmt.Errorf("%w: all keyboard devices went away", ErrHookRegistration)
	}
}

func (h *evdevHook) readEvents(f *os.File, handler Handler) {
	buf := make([]byte, inputEventSize*16)
	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}

			ev := Event{Key: Key(evCode), Time: time.Now()}
			switch evValue {
			case keyPress:
				ev.Kind = KeyPress
			case keyRelease:
				ev.Kind = KeyRelease
			case keyRepeat:
				ev.Kind = KeyRepeat
			default:
				continue
			}

			if handler(ev) == Forward {
				// a failed re-emit loses one keystroke; nothing to retry
				h.kbd.key(evCode, evValue)
			}
		}
	}
}

func (h *evdevHook) release() {
	h.once.Do(func() {
		for _, f := range h.files {
			unix.IoctlSetInt(int(f.Fd()), evIOCGrab, 0)
			f.Close()
		}
	})
}

// waitKeysReleased blocks until no key on f is down, so that grabbing does
// not strand a key (typically the Enter that launched us) in the pressed
// state for the rest of the session.
func waitKeysReleased(f *os.File, limit time.Duration) {
	deadline := time.Now().Add(limit)
	bits := make([]byte, keyBitmapLen)
	for time.Now().Before(deadline) {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(evIOCGKey), uintptr(unsafe.Pointer(&bits[0])))
		if errno != 0 {
			return
		}
		down := false
		for _, b := range bits {
			if b != 0 {
				down = true
				break
			}
		}
		if !down {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isOwnDevice(e.Name()) || !isKeyboard(e.Name()) {
			continue
		}
		keyboards = append(keyboards, filepath.Join("/dev/input", e.Name()))
	}
	return keyboards, nil
}

func deviceName(eventName string) string {
	data, err := os.ReadFile(filepath.Join("/sys/class/input", eventName, "device", "name"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func isOwnDevice(eventName string) bool {
	name := deviceName(eventName)
	return name == keyboardDeviceName || name == pointerDeviceName
}

// isKeyboard requires letter and space keys in the key capability bitmap and
// no relative axes, so mice and keyboard/touchpad combos are left alone.
func isKeyboard(eventName string) bool {
	caps := filepath.Join("/sys/class/input", eventName, "device", "capabilities")
	keyData, err := os.ReadFile(filepath.Join(caps, "key"))
	if err != nil {
		return false
	}
	if relData, err := os.ReadFile(filepath.Join(caps, "rel")); err == nil {
		if strings.TrimSpace(string(relData)) != "0" {
			return false
		}
	}
	bitmap := parseCapBitmap(string(keyData))
	for _, k := range []Key{KeyQ, KeyA, KeyZ, KeySpace} {
		if !bitmap.has(int(k)) {
			return false
		}
	}
	return true
}

// capBitmap is a sysfs capability bitmap, least significant word first.
type capBitmap []uint64

// parseCapBitmap reads the sysfs format: space separated hex words, most
// significant first, each one unsigned long wide.
func parseCapBitmap(s string) capBitmap {
	fields := strings.Fields(s)
	bm := make(capBitmap, len(fields))
	for i, f := range fields {
		w, err := strconv.ParseUint(f, 16, 64)
		if err != nil {
			return nil
		}
		bm[len(fields)-1-i] = w
	}
	return bm
}

func (bm capBitmap) has(bit int) bool {
	word := bit / 64
	if word >= len(bm) {
		return false
	}
	return bm[word]&(1<<(uint(bit)%64)) != 0
}

// DisplaySize returns the mode of the first connected DRM output.
func DisplaySize() (int, int, error) {
	statuses, err := filepath.Glob("/sys/class/drm/card*-*/status")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDisplayQuery, err)
	}
	for _, status := range statuses {
		data, err := os.ReadFile(status)
		if err != nil || strings.TrimSpace(string(data)) != "connected" {
			continue
		}
		modes, err := os.ReadFile(filepath.Join(filepath.Dir(status), "modes"))
		if err != nil {
			continue
		}
		if w, h, ok := parseMode(string(modes)); ok {
			return w, h, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: no connected output under /sys/class/drm (set screen_width/screen_height in the config)", ErrDisplayQuery)
}

// parseMode reads the preferred (first) line of a DRM modes file, e.g. "1920x1080".
func parseMode(modes string) (int, int, bool) {
	line, _, _ := strings.Cut(strings.TrimSpace(modes), "\n")
	var w, h int
	if _, err := fmt.Sscanf(line, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// Diagnose checks keyboard and uinput access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (%s)", len(keyboards), remediation)
	}

	f, err := openUinput()
	if err != nil {
		return "", fmt.Errorf("cannot open uinput: %w (%s)", err, remediation)
	}
	f.Close()

	return fmt.Sprintf("%d keyboard(s) found, opened %s, uinput writable", len(keyboards), opened), nil
}
