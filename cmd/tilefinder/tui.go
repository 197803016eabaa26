package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tilefinder/tilefinder/internal/favorites"
	"github.com/tilefinder/tilefinder/internal/statedb"
	"github.com/tilefinder/tilefinder/internal/ui"
	"github.com/tilefinder/tilefinder/internal/world"
)

// viewerRefreshInterval rescans so a moving viewer stays current.
const viewerRefreshInterval = time.Second

// notifyingStore announces every favorites write to the storage watcher so
// the TUI does not reload its own saves.
type notifyingStore struct {
	*statedb.StateDB
	watcher *ui.StorageWatcher
}

func (n notifyingStore) SaveFavorites(keys []string) error {
	n.watcher.NotifySave()
	return n.StateDB.SaveFavorites(keys)
}

func runTUI(worldPath string) error {
	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	wld, err := st.openWorld(worldPath)
	if err != nil {
		return err
	}
	cfg := st.cfg
	ui.InitTheme(cfg.ResolveTheme())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageWatcher := ui.NewStorageWatcher(st.db, ui.DefaultPollInterval)
	storageWatcher.Start()
	defer storageWatcher.Close()

	syncer := favorites.NewSyncer(st.shared.Favorites, notifyingStore{StateDB: st.db, watcher: storageWatcher})
	go syncer.Run(ctx)

	opts := ui.Options{
		StorageChanges: storageWatcher.Changes(),
		ReloadFavorites: func() error {
			keys, err := st.db.LoadFavorites()
			if err != nil {
				return err
			}
			st.shared.Favorites.Replace(keys)
			return nil
		},
		RefreshInterval: viewerRefreshInterval,
	}

	if !cfg.Watch.Disabled {
		watcher, err := world.NewWatcher(wld, world.WatcherConfig{
			Debounce:         time.Duration(cfg.WatchDebounceMs()) * time.Millisecond,
			MaxReloadsPerSec: cfg.WatchMaxReloadsPerSec(),
		})
		if err != nil {
			cliLog.Warn("world_watch_unavailable", slog.String("error", err.Error()))
		} else {
			watcher.Start()
			defer watcher.Stop()
			opts.WorldChanges = watcher.Changes()
		}
	}

	if cfg.GetTheme() == "system" {
		if tw := ui.NewThemeWatcher(ctx); tw != nil {
			defer tw.Close()
			opts.ThemeChanges = tw.Changes()
		}
	}

	nav := &clipboardNavigator{allowOSC52: true}
	session := st.newSession(wld, 0, nav)

	cliLog.Info("finder_opened",
		slog.String("world", wld.Path()),
		slog.Int("radius", session.Query().Radius),
	)

	final, err := tea.NewProgram(ui.New(session, opts), tea.WithAltScreen()).Run()
	cancel()
	<-syncer.Done()
	if err != nil {
		return err
	}

	if m, ok := final.(ui.Model); ok {
		if t, ok := m.Target(); ok {
			fmt.Println(t)
			fmt.Println("  " + teleportCommand(t))
			if nav.last != nil {
				fmt.Printf("  %s copied via %s\n", successSymbol, nav.last.Method)
			}
		}
	}
	return nil
}
