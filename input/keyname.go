package input

import "strings"

// a=30, b=48, c=46, d=32, e=18, f=33, g=34, h=35, i=23, j=36,
// k=37, l=38, m=50, n=49, o=24, p=25, q=16, r=19, s=31, t=20,
// u=22, v=47, w=17, x=45, y=21, z=44
var letterKeys = [26]Key{
	30, 48, 46, 32, 18, 33, 34, 35, 23, 36,
	37, 38, 50, 49, 24, 25, 16, 19, 31, 20,
	22, 47, 17, 45, 21, 44,
}

// 0=11, 1=2, 2=3, ..., 9=10
var digitKeys = [10]Key{11, 2, 3, 4, 5, 6, 7, 8, 9, 10}

var namedKeys = map[string]Key{
	"return":      KeyEnter,
	"enter":       KeyEnter,
	"escape":      KeyEsc,
	"esc":         KeyEsc,
	"space":       KeySpace,
	"tab":         KeyTab,
	"backspace":   KeyBackspace,
	"capslock":    KeyCapsLock,
	"caps_lock":   KeyCapsLock,
	"minus":       KeyMinus,
	"equal":       KeyEqual,
	"semicolon":   KeySemicolon,
	"apostrophe":  KeyApostrophe,
	"grave":       KeyGrave,
	"backslash":   KeyBackslash,
	"comma":       KeyComma,
	"period":      KeyDot,
	"dot":         KeyDot,
	"slash":       KeySlash,
	"leftbrace":   KeyLeftBrace,
	"rightbrace":  KeyRightBrace,
	"left":        KeyLeft,
	"right":       KeyRight,
	"up":          KeyUp,
	"down":        KeyDown,
	"home":        KeyHome,
	"end":         KeyEnd,
	"pageup":      KeyPageUp,
	"pagedown":    KeyPageDown,
	"insert":      KeyInsert,
	"delete":      KeyDelete,
	"shift":       KeyLeftShift,
	"shift_left":  KeyLeftShift,
	"shift_right": KeyRightShift,
	"ctrl":        KeyLeftCtrl,
	"ctrl_left":   KeyLeftCtrl,
	"ctrl_right":  KeyRightCtrl,
	"alt":         KeyLeftAlt,
	"alt_left":    KeyLeftAlt,
	"alt_right":   KeyRightAlt,
	"meta":        KeyLeftMeta,
	"meta_left":   KeyLeftMeta,
	"meta_right":  KeyRightMeta,
	"f1":          KeyF1,
	"f2":          KeyF2,
	"f3":          KeyF3,
	"f4":          KeyF4,
	"f5":          KeyF5,
	"f6":          KeyF6,
	"f7":          KeyF7,
	"f8":          KeyF8,
	"f9":          KeyF9,
	"f10":         KeyF10,
	"f11":         KeyF11,
	"f12":         KeyF12,
}

// keyNames is the reverse table used by Key.String.
var keyNames = map[Key]string{}

func init() {
	for i, k := range letterKeys {
		keyNames[k] = string(rune('a' + i))
	}
	for i, k := range digitKeys {
		keyNames[k] = string(rune('0' + i))
	}
	for name, k := range namedKeys {
		// prefer the shortest alias ("esc" over "escape")
		if cur, ok := keyNames[k]; !ok || len(name) < len(cur) {
			keyNames[k] = name
		}
	}
}

// LookupKey resolves a binding name such as "h", "return" or "shift_g".
// The shift flag is set when the name carries a "shift_" prefix on top of a
// non-modifier key, meaning the binding only fires while shift is held.
func LookupKey(name string) (k Key, shift bool, ok bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, false, false
	}
	if k, ok := namedKeys[name]; ok {
		return k, false, true
	}
	if rest, found := strings.CutPrefix(name, "shift_"); found {
		if k, _, ok := LookupKey(rest); ok && !k.IsShift() {
			return k, true, true
		}
		return 0, false, false
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return letterKeys[c-'a'], false, true
		case c >= '0' && c <= '9':
			return digitKeys[c-'0'], false, true
		}
	}
	return 0, false, false
}
