package world

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tilefinder/tilefinder/internal/logging"
)

var worldLog = logging.ForComponent(logging.CompWorld)

// FileWorld is a Memory world backed by a fixture file that can be reloaded.
type FileWorld struct {
	*Memory
	path string
	sf   singleflight.Group
}

// OpenFile loads the fixture at path.
func OpenFile(path string) (*FileWorld, error) {
	m, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &FileWorld{Memory: m, path: path}, nil
}

// Path returns the fixture path.
func (w *FileWorld) Path() string { return w.path }

// Reload re-reads the fixture. Concurrent callers share one read. On error
// the current world is left untouched.
func (w *FileWorld) Reload() error {
	_, err, _ := w.sf.Do("reload", func() (any, error) {
		m, err := LoadFile(w.path)
		if err != nil {
			return nil, err
		}
		w.Memory.replace(m)
		worldLog.Debug("world_reloaded",
			slog.String("path", w.path),
			slog.Int("entities", w.Memory.Len()),
		)
		return nil, nil
	})
	return err
}

// WatcherConfig tunes the fixture watcher.
type WatcherConfig struct {
	// Debounce coalesces bursts of writes (default: 150ms)
	Debounce time.Duration

	// MaxReloadsPerSec caps reload frequency (default: 4)
	MaxReloadsPerSec float64
}

// Watcher reloads a FileWorld when its fixture changes on disk and signals
// listeners through Changes().
type Watcher struct {
	world   *FileWorld
	watcher *fsnotify.Watcher
	limiter *rate.Limiter
	delay   time.Duration

	changes chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for w. Call Start to begin.
func NewWatcher(w *FileWorld, cfg WatcherConfig) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 150 * time.Millisecond
	}
	if cfg.MaxReloadsPerSec <= 0 {
		cfg.MaxReloadsPerSec = 4
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are still seen.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		world:   w,
		watcher: fw,
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxReloadsPerSec), 1),
		delay:   cfg.Debounce,
		changes: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Changes delivers one value per successful reload. Signals coalesce when the
// consumer is behind.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start runs the watch loop in the background.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.cancel()
	_ = w.watcher.Close()
	w.wg.Wait()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	target := filepath.Clean(w.world.path)
	var (
		timer   *time.Timer
		timerMu sync.Mutex
	)
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.delay, w.reload)
			timerMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			worldLog.Warn("world_watcher_error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) reload() {
	if err := w.limiter.Wait(w.ctx); err != nil {
		return
	}
	if err := w.world.Reload(); err != nil {
		worldLog.Warn("world_reload_failed",
			slog.String("path", w.world.path),
			slog.String("error", err.Error()),
		)
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
