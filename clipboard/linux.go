//go:build linux

package clipboard

import (
	"bytes"
	"os/exec"
	"strings"
)

// candidate tools in preference order. Wayland first when a compositor
// is running, then the X11 fallbacks.
var candidates = [][]string{
	{"wl-paste", "--no-newline"},
	{"xclip", "-selection", "clipboard", "-o"},
	{"xsel", "--clipboard", "--output"},
}

type toolReader struct{}

func defaultReader() Reader { return toolReader{} }

func (toolReader) ReadText() (string, error) {
	for _, c := range candidates {
		path, err := exec.LookPath(c[0])
		if err != nil {
			continue
		}
		cmd := exec.Command(path, c[1:]...)
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			continue
		}
		return strings.TrimRight(out.String(), "\n"), nil
	}
	return "", ErrUnavailable
}
