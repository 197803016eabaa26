package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// readRecords parses every JSON line in the log file.
func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var out []map[string]any
	start := 0
	for i, b := range data {
		if b != '\n' {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal(data[start:i], &record); err == nil {
			out = append(out, record)
		}
		start = i + 1
	}
	return out
}

func findMsg(records []map[string]any, msg string) map[string]any {
	for _, r := range records {
		if r["msg"] == msg {
			return r
		}
	}
	return nil
}

func TestInitWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir})
	defer Shutdown()

	Logger().Info("refresh_done", "rows", 3)

	rec := findMsg(readRecords(t, filepath.Join(dir, LogFileName)), "refresh_done")
	if rec == nil {
		t.Fatal("expected refresh_done record")
	}
	if rec["rows"] != float64(3) {
		t.Errorf("expected rows=3, got %v", rec["rows"])
	}
}

func TestInitWithoutDirDiscards(t *testing.T) {
	Init(Config{})
	defer Shutdown()

	if Logger() == nil {
		t.Fatal("expected non-nil logger")
	}
	Logger().Info("dropped")
	Aggregate(CompFinder, "refresh")
}

func TestForComponentBeforeInit(t *testing.T) {
	Shutdown()
	l := ForComponent(CompFavorites)

	dir := t.TempDir()
	Init(Config{LogDir: dir})
	defer Shutdown()

	l.With("key", "overworld:1:2:3").Info("favorite_toggled")

	rec := findMsg(readRecords(t, filepath.Join(dir, LogFileName)), "favorite_toggled")
	if rec == nil {
		t.Fatal("component logger created before Init lost its record")
	}
	if rec["component"] != CompFavorites {
		t.Errorf("expected component=%s, got %v", CompFavorites, rec["component"])
	}
	if rec["key"] != "overworld:1:2:3" {
		t.Errorf("expected key attr, got %v", rec["key"])
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "warn"})
	defer Shutdown()

	Logger().Info("too_quiet")
	Logger().Warn("loud_enough")

	records := readRecords(t, filepath.Join(dir, LogFileName))
	if findMsg(records, "too_quiet") != nil {
		t.Error("info record should be filtered at warn level")
	}
	if findMsg(records, "loud_enough") == nil {
		t.Error("warn record missing")
	}
}

func TestTextFormat(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir, Format: "text"})
	defer Shutdown()

	Logger().Info("text_line")

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if json.Unmarshal(data, &record) == nil {
		t.Error("expected text output, got JSON")
	}
}

func TestDumpRingBuffer(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir, RingBufferSize: 4096})
	defer Shutdown()

	Logger().Info("before_crash")

	dump := filepath.Join(dir, "crash-dump.jsonl")
	if err := DumpRingBuffer(dump); err != nil {
		t.Fatalf("DumpRingBuffer: %v", err)
	}
	if findMsg(readRecords(t, dump), "before_crash") == nil {
		t.Error("dump does not contain the last record")
	}
}

func TestShutdownFlushesAggregates(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir, AggregateIntervalSecs: 3600})

	for i := 0; i < 5; i++ {
		Aggregate(CompFinder, "refresh")
	}
	Shutdown()

	rec := findMsg(readRecords(t, filepath.Join(dir, LogFileName)), "event_summary")
	if rec == nil {
		t.Fatal("expected event_summary on shutdown")
	}
	if rec["count"] != float64(5) {
		t.Errorf("expected count=5, got %v", rec["count"])
	}
}
