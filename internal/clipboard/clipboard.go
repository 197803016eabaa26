// Package clipboard copies navigation targets to the system clipboard.
package clipboard

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// ErrEmpty is returned when there is nothing to copy.
var ErrEmpty = errors.New("no content to copy")

// Method names reported in CopyResult.
const (
	MethodNative = "native"
	MethodOSC52  = "osc52"
)

// CopyResult describes a successful copy.
type CopyResult struct {
	Method   string
	ByteSize int
}

// writeNative and openTTY are replaced in tests.
var (
	writeNative = clipboard.WriteAll
	openTTY     = func() (io.WriteCloser, error) {
		return os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	}
)

// Copy puts text on the clipboard. The native clipboard is tried first
// (pbcopy, xclip, xsel, wl-copy or the Windows API, whichever the platform
// offers). When that fails and allowOSC52 is set the OSC 52 terminal escape
// is written to the controlling terminal instead, which also works over SSH.
func Copy(text string, allowOSC52 bool) (*CopyResult, error) {
	if text == "" {
		return nil, ErrEmpty
	}

	nativeErr := errors.New("native clipboard unsupported")
	if !clipboard.Unsupported {
		if nativeErr = writeNative(text); nativeErr == nil {
			return &CopyResult{Method: MethodNative, ByteSize: len(text)}, nil
		}
	}

	if !allowOSC52 {
		return nil, fmt.Errorf("copy to clipboard: %w", nativeErr)
	}
	if err := copyOSC52(text); err != nil {
		return nil, fmt.Errorf("OSC 52 clipboard failed: %w", err)
	}
	return &CopyResult{Method: MethodOSC52, ByteSize: len(text)}, nil
}

func copyOSC52(text string) error {
	tty, err := openTTY()
	if err != nil {
		return fmt.Errorf("cannot open terminal: %w", err)
	}
	defer tty.Close()

	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err = io.WriteString(tty, osc52Sequence(encoded, os.Getenv("TMUX") != ""))
	return err
}

// osc52Sequence wraps base64 content in OSC 52, adding the tmux DCS
// passthrough when running inside tmux.
func osc52Sequence(b64 string, inTmux bool) string {
	osc := "\x1b]52;c;" + b64 + "\x07"
	if inTmux {
		return "\x1bPtmux;\x1b" + osc + "\x1b\\"
	}
	return osc
}
