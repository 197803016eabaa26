package ui

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tilefinder/tilefinder/internal/logging"
)

var storageLog = logging.ForComponent(logging.CompStorage)

// ChangeClock reports when the shared state file last changed.
type ChangeClock interface {
	LastModified() (int64, error)
}

// StorageWatcher polls the state database so favorites changed by another
// process (the CLI, a second finder) show up in a running TUI. Writes made
// by this process are announced through NotifySave and ignored.
type StorageWatcher struct {
	clock    ChangeClock
	interval time.Duration
	ignore   time.Duration

	changes   chan struct{}
	closeCh   chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	lastSeen int64
	lastSave time.Time
}

// DefaultPollInterval is how often the database is checked.
const DefaultPollInterval = 2 * time.Second

// NewStorageWatcher returns a watcher polling clock every interval. Changes
// within a window slightly longer than interval after NotifySave are
// treated as our own.
func NewStorageWatcher(clock ChangeClock, interval time.Duration) *StorageWatcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	last, _ := clock.LastModified()
	return &StorageWatcher{
		clock:    clock,
		interval: interval,
		ignore:   interval + interval/2,
		changes:  make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
		lastSeen: last,
	}
}

// Start begins polling in the background.
func (sw *StorageWatcher) Start() {
	go func() {
		ticker := time.NewTicker(sw.interval)
		defer ticker.Stop()
		for {
			select {
			case <-sw.closeCh:
				return
			case <-ticker.C:
				sw.poll()
			}
		}
	}()
}

func (sw *StorageWatcher) poll() {
	ts, err := sw.clock.LastModified()
	if err != nil {
		storageLog.Debug("storage_poll_failed", slog.String("error", err.Error()))
		return
	}

	sw.mu.Lock()
	changed := ts > sw.lastSeen
	if changed {
		sw.lastSeen = ts
	}
	own := time.Since(sw.lastSave) < sw.ignore
	sw.mu.Unlock()

	if !changed || own {
		return
	}
	storageLog.Debug("storage_changed_externally", slog.Int64("timestamp", ts))
	select {
	case sw.changes <- struct{}{}:
	default:
	}
}

// Changes signals external modifications.
func (sw *StorageWatcher) Changes() <-chan struct{} {
	return sw.changes
}

// NotifySave marks the start of a write by this process.
func (sw *StorageWatcher) NotifySave() {
	sw.mu.Lock()
	sw.lastSave = time.Now()
	sw.mu.Unlock()
}

// Close stops polling. Safe to call more than once.
func (sw *StorageWatcher) Close() {
	sw.closeOnce.Do(func() { close(sw.closeCh) })
}
