//go:build darwin

package clipboard

import (
	"bytes"
	"os/exec"
	"strings"
)

type pasteboardReader struct{}

func defaultReader() Reader { return pasteboardReader{} }

func (pasteboardReader) ReadText() (string, error) {
	cmd := exec.Command("pbpaste")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
