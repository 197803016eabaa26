package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/atotto/clipboard"
)

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func stub(t *testing.T, native func(string) error, tty io.WriteCloser, ttyErr error) {
	t.Helper()
	oldNative, oldTTY := writeNative, openTTY
	writeNative = native
	openTTY = func() (io.WriteCloser, error) { return tty, ttyErr }
	t.Cleanup(func() { writeNative, openTTY = oldNative, oldTTY })
}

func TestCopyEmpty(t *testing.T) {
	if _, err := Copy("", true); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestCopyNative(t *testing.T) {
	if clipboard.Unsupported {
		t.Skip("no native clipboard on this platform")
	}
	var got string
	stub(t, func(s string) error { got = s; return nil }, nil, errors.New("unused"))

	res, err := Copy("/tp 1 64 2", false)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if res.Method != MethodNative || got != "/tp 1 64 2" || res.ByteSize != 10 {
		t.Errorf("unexpected result %+v (copied %q)", res, got)
	}
}

func TestCopyFallsBackToOSC52(t *testing.T) {
	t.Setenv("TMUX", "")
	buf := &bytes.Buffer{}
	stub(t, func(string) error { return errors.New("no xclip") }, nopCloser{buf}, nil)

	res, err := Copy("hello", true)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if res.Method != MethodOSC52 {
		t.Errorf("expected osc52, got %s", res.Method)
	}
	want := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte("hello")) + "\x07"
	if buf.String() != want {
		t.Errorf("unexpected sequence %q", buf.String())
	}
}

func TestCopyNoFallback(t *testing.T) {
	stub(t, func(string) error { return errors.New("no xclip") }, nil, errors.New("unused"))
	if _, err := Copy("hello", false); err == nil {
		t.Fatal("expected error without OSC 52 fallback")
	}
}

func TestCopyTTYError(t *testing.T) {
	stub(t, func(string) error { return errors.New("no xclip") }, nil, errors.New("no tty"))
	_, err := Copy("hello", true)
	if err == nil || !strings.Contains(err.Error(), "OSC 52") {
		t.Fatalf("expected OSC 52 error, got %v", err)
	}
}

func TestOSC52Sequence(t *testing.T) {
	if got := osc52Sequence("aGk=", false); got != "\x1b]52;c;aGk=\x07" {
		t.Errorf("plain: %q", got)
	}
	got := osc52Sequence("aGk=", true)
	if !strings.HasPrefix(got, "\x1bPtmux;\x1b\x1b]52;c;aGk=") || !strings.HasSuffix(got, "\x1b\\") {
		t.Errorf("tmux: %q", got)
	}
}
