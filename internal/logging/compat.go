package logging

import (
	"bytes"
	"log/slog"
	"strings"
)

// BridgeWriter turns stdlib log output into structured records. It is
// installed with log.SetOutput so that anything still calling log.Printf
// (third-party code included) ends up in debug.log instead of on the
// terminal the TUI is drawing on. A leading "[category] " prefix becomes
// the component attribute.
type BridgeWriter struct {
	fallback string
}

// NewBridgeWriter returns a writer tagging unprefixed lines with component.
func NewBridgeWriter(component string) *BridgeWriter {
	return &BridgeWriter{fallback: component}
}

// Write logs one record per call.
func (bw *BridgeWriter) Write(p []byte) (int, error) {
	msg := stripLogTimestamp(string(bytes.TrimSpace(p)))
	if msg == "" {
		return len(p), nil
	}

	component := bw.fallback
	if strings.HasPrefix(msg, "[") {
		if end := strings.Index(msg, "] "); end > 0 {
			component = canonicalComponent(strings.ToLower(msg[1:end]))
			msg = msg[end+2:]
		}
	}

	Logger().Info(msg, slog.String("component", component))
	return len(p), nil
}

// stripLogTimestamp drops a "15:04:05 " or "15:04:05.000000 " prefix.
func stripLogTimestamp(s string) string {
	if len(s) > 16 && s[2] == ':' && s[5] == ':' && s[8] == '.' && s[15] == ' ' {
		return s[16:]
	}
	if len(s) > 9 && s[2] == ':' && s[5] == ':' && s[8] == ' ' {
		return s[9:]
	}
	return s
}

func canonicalComponent(cat string) string {
	switch cat {
	case "finder", "pipeline", "refresh":
		return CompFinder
	case "world", "watch", "watcher":
		return CompWorld
	case "storage", "statedb", "sqlite", "db":
		return CompStorage
	case "fav", "favs", "favorites":
		return CompFavorites
	case "ui", "tui":
		return CompUI
	}
	return cat
}
