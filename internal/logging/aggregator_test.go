package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestAggregatorCountsAndResets(t *testing.T) {
	var buf bytes.Buffer
	agg := NewAggregator(slog.New(slog.NewJSONHandler(&buf, nil)), 60)

	agg.Record(CompFinder, "refresh", slog.Int("rows", 1))
	agg.Record(CompFinder, "refresh", slog.Int("rows", 4))
	agg.Record(CompWorld, "scan")

	if got := agg.Pending(CompFinder, "refresh"); got != 2 {
		t.Fatalf("expected 2 pending, got %d", got)
	}

	agg.Flush()
	if got := agg.Pending(CompFinder, "refresh"); got != 0 {
		t.Errorf("expected counters reset after flush, got %d", got)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 summary lines, got %d", len(lines))
	}

	// Summaries are ordered by component then event.
	var first map[string]any
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatal(err)
	}
	if first["event"] != "refresh" || first["count"] != float64(2) || first["rows"] != float64(4) {
		t.Errorf("unexpected first summary: %v", first)
	}
}

func TestAggregatorNilLogger(t *testing.T) {
	agg := NewAggregator(nil, 0)
	agg.Start()
	agg.Record(CompUI, "keypress")
	agg.Stop()
	agg.Stop()
}
