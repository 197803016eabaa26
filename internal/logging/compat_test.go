package logging

import (
	"log"
	"path/filepath"
	"testing"
)

func TestBridgeWriterRoutesStdlibLog(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir})
	defer Shutdown()

	l := log.New(NewBridgeWriter(CompCLI), "", log.Ltime)
	l.Print("[sqlite] busy, retrying")
	l.Print("plain line")

	records := readRecords(t, filepath.Join(dir, LogFileName))

	rec := findMsg(records, "busy, retrying")
	if rec == nil {
		t.Fatal("prefixed line missing")
	}
	if rec["component"] != CompStorage {
		t.Errorf("expected component=%s, got %v", CompStorage, rec["component"])
	}

	rec = findMsg(records, "plain line")
	if rec == nil {
		t.Fatal("plain line missing")
	}
	if rec["component"] != CompCLI {
		t.Errorf("expected fallback component, got %v", rec["component"])
	}
}

func TestStripLogTimestamp(t *testing.T) {
	cases := map[string]string{
		"12:34:56 hello":        "hello",
		"12:34:56.123456 hello": "hello",
		"no stamp":              "no stamp",
	}
	for in, want := range cases {
		if got := stripLogTimestamp(in); got != want {
			t.Errorf("stripLogTimestamp(%q) = %q, want %q", in, got, want)
		}
	}
}
