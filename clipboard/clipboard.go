// Package clipboard reads and writes the system clipboard.
package clipboard

import (
	"errors"

	cb "github.com/atotto/clipboard"
)

// ErrUnavailable means no clipboard utility was found (xclip, xsel,
// wl-clipboard on Linux).
var ErrUnavailable = errors.New("no clipboard utility available")

func Read() (string, error) {
	if cb.Unsupported {
		return "", ErrUnavailable
	}
	return cb.ReadAll()
}

func Copy(text string) error {
	if cb.Unsupported {
		return ErrUnavailable
	}
	return cb.WriteAll(text)
}

// System is the clipboard as seen by the engine's yank read-back.
type System struct{}

func (System) Read() (string, error) { return Read() }
