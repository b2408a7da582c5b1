package input

import (
	"runtime"
	"strconv"
)

// Key identifies a physical key. Values are Linux input-event-codes so the
// evdev backend can use them without translation.
type Key uint16

const (
	KeyReserved   Key = 0
	KeyEsc        Key = 1
	Key1          Key = 2
	Key2          Key = 3
	Key3          Key = 4
	Key4          Key = 5
	Key5          Key = 6
	Key6          Key = 7
	Key7          Key = 8
	Key8          Key = 9
	Key9          Key = 10
	Key0          Key = 11
	KeyMinus      Key = 12
	KeyEqual      Key = 13
	KeyBackspace  Key = 14
	KeyTab        Key = 15
	KeyQ          Key = 16
	KeyW          Key = 17
	KeyE          Key = 18
	KeyR          Key = 19
	KeyT          Key = 20
	KeyY          Key = 21
	KeyU          Key = 22
	KeyI          Key = 23
	KeyO          Key = 24
	KeyP          Key = 25
	KeyLeftBrace  Key = 26
	KeyRightBrace Key = 27
	KeyEnter      Key = 28
	KeyLeftCtrl   Key = 29
	KeyA          Key = 30
	KeyS          Key = 31
	KeyD          Key = 32
	KeyF          Key = 33
	KeyG          Key = 34
	KeyH          Key = 35
	KeyJ          Key = 36
	KeyK          Key = 37
	KeyL          Key = 38
	KeySemicolon  Key = 39
	KeyApostrophe Key = 40
	KeyGrave      Key = 41
	KeyLeftShift  Key = 42
	KeyBackslash  Key = 43
	KeyZ          Key = 44
	KeyX          Key = 45
	KeyC          Key = 46
	KeyV          Key = 47
	KeyB          Key = 48
	KeyN          Key = 49
	KeyM          Key = 50
	KeyComma      Key = 51
	KeyDot        Key = 52
	KeySlash      Key = 53
	KeyRightShift Key = 54
	KeyLeftAlt    Key = 56
	KeySpace      Key = 57
	KeyCapsLock   Key = 58
	KeyF1         Key = 59
	KeyF2         Key = 60
	KeyF3         Key = 61
	KeyF4         Key = 62
	KeyF5         Key = 63
	KeyF6         Key = 64
	KeyF7         Key = 65
	KeyF8         Key = 66
	KeyF9         Key = 67
	KeyF10        Key = 68
	KeyF11        Key = 87
	KeyF12        Key = 88
	KeyRightCtrl  Key = 97
	KeyRightAlt   Key = 100
	KeyHome       Key = 102
	KeyUp         Key = 103
	KeyPageUp     Key = 104
	KeyLeft       Key = 105
	KeyRight      Key = 106
	KeyEnd        Key = 107
	KeyDown       Key = 108
	KeyPageDown   Key = 109
	KeyInsert     Key = 110
	KeyDelete     Key = 111
	KeyLeftMeta   Key = 125
	KeyRightMeta  Key = 126

	// keyMax bounds the key bits registered on the virtual keyboard.
	keyMax Key = 0x2ff
)

// IsShift reports whether k is either shift key.
func (k Key) IsShift() bool {
	return k == KeyLeftShift || k == KeyRightShift
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "key(" + strconv.Itoa(int(k)) + ")"
}

// Button is a pointer button, valued as its Linux BTN_* code.
type Button uint16

const (
	ButtonLeft   Button = 0x110
	ButtonRight  Button = 0x111
	ButtonMiddle Button = 0x112
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return "button(" + strconv.Itoa(int(b)) + ")"
}

// Accelerator is the platform's shortcut modifier: Cmd on macOS, Ctrl elsewhere.
func Accelerator() Key {
	if runtime.GOOS == "darwin" {
		return KeyLeftMeta
	}
	return KeyLeftCtrl
}
