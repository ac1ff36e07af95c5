package clipboard

import "errors"

// ErrUnavailable is returned when no clipboard tool is usable on this
// system.
var ErrUnavailable = errors.New("clipboard not available on this system")

// Reader reads the current text contents of the system clipboard.
type Reader interface {
	ReadText() (string, error)
}

// Read reads the clipboard using the platform default reader.
func Read() (string, error) {
	return defaultReader().ReadText()
}
