package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Component names attached to every record as "component".
const (
	CompFinder    = "finder"
	CompWorld     = "world"
	CompStorage   = "storage"
	CompFavorites = "favorites"
	CompUI        = "ui"
	CompCLI       = "cli"
)

// LogFileName is the active log file inside Config.LogDir.
const LogFileName = "debug.log"

// Config holds logging configuration.
type Config struct {
	// LogDir is the directory for log files (e.g. ~/.tilefinder)
	LogDir string

	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string

	// Format is "json" (default) or "text"
	Format string

	// MaxSizeMB is the size in MB before rotation (default: 5)
	MaxSizeMB int

	// MaxBackups is rotated files to keep (default: 3)
	MaxBackups int

	// MaxAgeDays is days to keep rotated files (default: 7)
	MaxAgeDays int

	// Compress rotated files
	Compress bool

	// RingBufferSize is the crash-dump buffer size in bytes (default: 2MB)
	RingBufferSize int

	// AggregateIntervalSecs is how often batched events are summarized (default: 30)
	AggregateIntervalSecs int

	// PprofEnabled starts a pprof listener on localhost:6060
	PprofEnabled bool

	// Debug forces logging on even without LogDir. Records then land in
	// os.TempDir().
	Debug bool
}

func (c *Config) applyDefaults() {
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 5
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 7
	}
	if c.RingBufferSize <= 0 {
		c.RingBufferSize = 2 * 1024 * 1024
	}
	if c.AggregateIntervalSecs <= 0 {
		c.AggregateIntervalSecs = 30
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type state struct {
	logger *slog.Logger
	ring   *RingBuffer
	agg    *Aggregator
	file   *lumberjack.Logger
}

var (
	globalMu sync.RWMutex
	global   state
)

var discard = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Init installs the global logger. The TUI owns the terminal, so records
// never go to stdout or stderr: with neither Debug nor LogDir set they are
// dropped entirely.
func Init(cfg Config) {
	cfg.applyDefaults()

	globalMu.Lock()
	defer globalMu.Unlock()
	closeLocked()

	if !cfg.Debug && cfg.LogDir == "" {
		global = state{
			logger: discard,
			ring:   NewRingBuffer(1024),
			agg:    NewAggregator(nil, cfg.AggregateIntervalSecs),
		}
		return
	}

	dir := cfg.LogDir
	if dir == "" {
		dir = os.TempDir()
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	ring := NewRingBuffer(cfg.RingBufferSize)
	out := io.MultiWriter(file, ring)

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	logger := slog.New(handler)

	agg := NewAggregator(logger, cfg.AggregateIntervalSecs)
	agg.Start()

	global = state{logger: logger, ring: ring, agg: agg, file: file}

	if cfg.PprofEnabled {
		startPprof()
	}
}

// Logger returns the global logger. Safe to call before Init.
func Logger() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global.logger == nil {
		return discard
	}
	return global.logger
}

// ForComponent returns a logger tagged with component. It resolves the global
// handler at log time, so package-level loggers declared before Init still
// write to the configured destination.
func ForComponent(component string) *slog.Logger {
	return slog.New(&componentHandler{component: component})
}

type componentHandler struct {
	component string
	attrs     []slog.Attr
	groups    []string
}

func (h *componentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (h *componentHandler) Handle(ctx context.Context, r slog.Record) error {
	handler := Logger().Handler().WithAttrs([]slog.Attr{slog.String("component", h.component)})
	if len(h.attrs) > 0 {
		handler = handler.WithAttrs(h.attrs)
	}
	for _, g := range h.groups {
		handler = handler.WithGroup(g)
	}
	return handler.Handle(ctx, r)
}

func (h *componentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &componentHandler{component: h.component, attrs: merged, groups: h.groups}
}

func (h *componentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := make([]string, 0, len(h.groups)+1)
	groups = append(groups, h.groups...)
	groups = append(groups, name)
	return &componentHandler{component: h.component, attrs: h.attrs, groups: groups}
}

// Aggregate counts a high-frequency event instead of logging each one.
func Aggregate(component, event string, fields ...slog.Attr) {
	globalMu.RLock()
	agg := global.agg
	globalMu.RUnlock()
	if agg != nil {
		agg.Record(component, event, fields...)
	}
}

// DumpRingBuffer writes the recent log history to path.
func DumpRingBuffer(path string) error {
	globalMu.RLock()
	ring := global.ring
	globalMu.RUnlock()
	if ring == nil {
		return nil
	}
	return ring.DumpToFile(path)
}

// Shutdown flushes pending summaries and closes the log file.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()
	closeLocked()
}

func closeLocked() {
	if global.agg != nil {
		global.agg.Stop()
	}
	if global.file != nil {
		_ = global.file.Close()
	}
	global = state{}
}
