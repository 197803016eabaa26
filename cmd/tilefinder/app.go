package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tilefinder/tilefinder/internal/clipboard"
	"github.com/tilefinder/tilefinder/internal/config"
	"github.com/tilefinder/tilefinder/internal/favorites"
	"github.com/tilefinder/tilefinder/internal/finder"
	"github.com/tilefinder/tilefinder/internal/history"
	"github.com/tilefinder/tilefinder/internal/logging"
	"github.com/tilefinder/tilefinder/internal/statedb"
	"github.com/tilefinder/tilefinder/internal/world"
)

var cliLog = logging.ForComponent(logging.CompCLI)

// errNoWorld is returned when neither --world nor world_file is set.
var errNoWorld = errors.New("no world file: pass --world FILE or set world_file in config.toml")

// appState is the persistent state every command works on.
type appState struct {
	cfg    *config.Config
	db     *statedb.StateDB
	shared *finder.Shared
}

// openState loads the config and the state database and restores
// favorites, history and the remembered modes from it.
func openState() (*appState, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path, err := config.StatePath()
	if err != nil {
		return nil, err
	}
	db, err := statedb.OpenMigrated(path)
	if err != nil {
		return nil, err
	}

	favs, err := favorites.Load(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	entries, err := db.LoadHistory()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load history: %w", err)
	}
	hist := history.New()
	hist.Restore(entries)

	prefs, err := finder.LoadPreferences(db)
	if err != nil {
		cliLog.Warn("preferences_load_failed", slog.String("error", err.Error()))
	}

	return &appState{
		cfg: cfg,
		db:  db,
		shared: &finder.Shared{
			Favorites:    favs,
			History:      hist,
			Prefs:        &prefs,
			PrefStore:    db,
			HistoryStore: db,
		},
	}, nil
}

func (s *appState) Close() error {
	return s.db.Close()
}

// saveFavorites writes the in-memory favorites straight to the database.
// Used by one-shot commands that do not run a Syncer.
func (s *appState) saveFavorites() error {
	return s.db.SaveFavorites(s.shared.Favorites.Keys())
}

// openWorld opens the world fixture named by flagPath, falling back to the
// configured world_file.
func (s *appState) openWorld(flagPath string) (*world.FileWorld, error) {
	path := flagPath
	if path == "" {
		path = s.cfg.ResolvedWorldFile()
	}
	if path == "" {
		return nil, errNoWorld
	}
	return world.OpenFile(path)
}

// newSession builds a pipeline over w and opens a session on it.
func (s *appState) newSession(w *world.FileWorld, radius int, nav finder.Navigator) *finder.Session {
	if radius <= 0 {
		radius = s.cfg.ResolvedRadius()
	}
	labeler := finder.NewLabeler(w, s.cfg.Sources)
	p := finder.NewPipeline(w, w, labeler, s.shared.Favorites, nil)
	return finder.NewSession(p, s.shared, radius, nav)
}

// teleportCommand is the in-game command that moves the player to t.
func teleportCommand(t finder.Target) string {
	return fmt.Sprintf("/execute in %s run tp @s %d %d %d", t.Dimension, t.Pos.X, t.Pos.Y, t.Pos.Z)
}

// clipboardNavigator copies the teleport command for each target.
type clipboardNavigator struct {
	allowOSC52 bool
	last       *clipboard.CopyResult
}

func (n *clipboardNavigator) Navigate(t finder.Target) error {
	res, err := clipboard.Copy(teleportCommand(t), n.allowOSC52)
	if err != nil {
		return err
	}
	n.last = res
	return nil
}
