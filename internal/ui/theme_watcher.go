package ui

import (
	"context"
	"log/slog"
	"sync"

	dark "github.com/thiagokokada/dark-mode-go"
)

// ThemeWatcher follows the OS dark mode setting while the theme is
// "system".
type ThemeWatcher struct {
	changes chan bool
	stop    context.CancelFunc
	once    sync.Once
}

// NewThemeWatcher starts watching. It returns nil when the platform cannot
// report dark mode changes.
func NewThemeWatcher(parent context.Context) *ThemeWatcher {
	ctx, cancel := context.WithCancel(parent)
	events, errs, err := dark.WatchDarkMode(ctx)
	if err != nil {
		cancel()
		uiLog.Warn("theme_watch_unavailable", slog.String("error", err.Error()))
		return nil
	}

	tw := &ThemeWatcher{changes: make(chan bool, 1), stop: cancel}
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case isDark, ok := <-events:
				if !ok {
					return
				}
				select {
				case tw.changes <- isDark:
				default:
				}
			case err, ok := <-errs:
				if ok && err != nil {
					uiLog.Warn("theme_watch_error", slog.String("error", err.Error()))
				}
			}
		}
	}()
	return tw
}

// Changes delivers true when the OS switches to dark mode, false for light.
func (tw *ThemeWatcher) Changes() <-chan bool {
	return tw.changes
}

// Close stops the watcher. Safe to call more than once.
func (tw *ThemeWatcher) Close() {
	tw.once.Do(tw.stop)
}
