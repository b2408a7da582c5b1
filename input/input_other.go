//go:build !linux

package input

import (
	"context"
	"fmt"
	"sync"

	"github.com/micmonay/keybd_event"
)

// Open on this platform provides a keyboard-only injector; there is no
// global grab, so the hook always fails.
func Open(width, height int) (Hook, Injector, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrHookRegistration, err)
	}
	return unsupportedHook{}, &chordInjector{kb: kb}, nil
}

type unsupportedHook struct{}

func (unsupportedHook) Run(context.Context, Handler) error {
	return fmt.Errorf("%w: global keyboard grab: %w", ErrHookRegistration, ErrUnsupported)
}

var vkCodes = map[Key]int{
	KeyA: keybd_event.VK_A, KeyB: keybd_event.VK_B, KeyC: keybd_event.VK_C,
	KeyD: keybd_event.VK_D, KeyE: keybd_event.VK_E, KeyF: keybd_event.VK_F,
	KeyG: keybd_event.VK_G, KeyH: keybd_event.VK_H, KeyI: keybd_event.VK_I,
	KeyJ: keybd_event.VK_J, KeyK: keybd_event.VK_K, KeyL: keybd_event.VK_L,
	KeyM: keybd_event.VK_M, KeyN: keybd_event.VK_N, KeyO: keybd_event.VK_O,
	KeyP: keybd_event.VK_P, KeyQ: keybd_event.VK_Q, KeyR: keybd_event.VK_R,
	KeyS: keybd_event.VK_S, KeyT: keybd_event.VK_T, KeyU: keybd_event.VK_U,
	KeyV: keybd_event.VK_V, KeyW: keybd_event.VK_W, KeyX: keybd_event.VK_X,
	KeyY: keybd_event.VK_Y, KeyZ: keybd_event.VK_Z,
}

// chordInjector emulates accelerator chords with keybd_event: an
// accelerator press is remembered and applied to the next letter press.
type chordInjector struct {
	mu    sync.Mutex
	kb    keybd_event.KeyBonding
	accel bool
}

func (c *chordInjector) MoveTo(x, y int) error            { return ErrUnsupported }
func (c *chordInjector) Button(b Button, down bool) error { return ErrUnsupported }
func (c *chordInjector) Wheel(dx, dy int) error           { return ErrUnsupported }
func (c *chordInjector) Close() error                     { return nil }

func (c *chordInjector) Key(k Key, down bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if k == Accelerator() {
		c.accel = down
		return nil
	}
	vk, ok := vkCodes[k]
	if !ok {
		return fmt.Errorf("key %s: %w", k, ErrUnsupported)
	}
	if !down {
		return nil
	}
	c.kb.Clear()
	c.kb.SetKeys(vk)
	if Accelerator() == KeyLeftMeta {
		c.kb.HasSuper(c.accel)
	} else {
		c.kb.HasCTRL(c.accel)
	}
	return c.kb.Launching()
}

// DisplaySize is only implemented for Linux.
func DisplaySize() (int, int, error) {
	return 0, 0, fmt.Errorf("%w: %w", ErrDisplayQuery, ErrUnsupported)
}

// Diagnose reports what this platform supports.
func Diagnose() (string, error) {
	return "", fmt.Errorf("global keyboard grab: %w", ErrUnsupported)
}
