// Package favorites keeps the set of favorited positions and persists it in
// the background.
package favorites

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/tilefinder/tilefinder/internal/logging"
)

var favLog = logging.ForComponent(logging.CompFavorites)

// Persistence loads and stores the favorites set.
type Persistence interface {
	LoadFavorites() ([]string, error)
	SaveFavorites(keys []string) error
}

// Store is a set of favorite keys ("dimension:x:y:z"). Every mutation
// raises a dirty signal on Changes; readers never block on persistence.
type Store struct {
	mu      sync.RWMutex
	keys    map[string]struct{}
	changes chan struct{}
}

// NewStore returns a store seeded with keys.
func NewStore(keys ...string) *Store {
	s := &Store{
		keys:    make(map[string]struct{}, len(keys)),
		changes: make(chan struct{}, 1),
	}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

// Load builds a store from p.
func Load(p Persistence) (*Store, error) {
	keys, err := p.LoadFavorites()
	if err != nil {
		return nil, err
	}
	return NewStore(keys...), nil
}

// Contains reports whether key is a favorite.
func (s *Store) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok
}

// Toggle adds key if absent, removes it otherwise, and reports whether it
// is now a favorite.
func (s *Store) Toggle(key string) bool {
	s.mu.Lock()
	_, had := s.keys[key]
	if had {
		delete(s.keys, key)
	} else {
		s.keys[key] = struct{}{}
	}
	s.mu.Unlock()

	s.markDirty()
	favLog.Debug("favorite_toggled", slog.String("key", key), slog.Bool("added", !had))
	return !had
}

// Add makes key a favorite. Adding an existing key changes nothing and
// raises no signal.
func (s *Store) Add(key string) {
	s.mu.Lock()
	_, had := s.keys[key]
	s.keys[key] = struct{}{}
	s.mu.Unlock()
	if !had {
		s.markDirty()
	}
}

// Replace swaps in keys loaded from elsewhere, e.g. after another process
// changed the stored set. It raises no signal, so the syncer does not write
// the same set straight back.
func (s *Store) Replace(keys []string) {
	next := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		next[k] = struct{}{}
	}
	s.mu.Lock()
	s.keys = next
	s.mu.Unlock()
}

// Clear removes every favorite.
func (s *Store) Clear() {
	s.mu.Lock()
	s.keys = make(map[string]struct{})
	s.mu.Unlock()
	s.markDirty()
}

// Keys returns the favorites in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Changes signals that the set changed since the last receive. Bursts of
// mutations coalesce into one signal.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) markDirty() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Syncer writes the store to its persistence whenever it changes.
type Syncer struct {
	store *Store
	dest  Persistence
	done  chan struct{}
}

// NewSyncer returns a syncer for store. Call Run in a goroutine.
func NewSyncer(store *Store, dest Persistence) *Syncer {
	return &Syncer{store: store, dest: dest, done: make(chan struct{})}
}

// Run saves after every change until ctx is cancelled, then performs a
// final save if a change is still pending. Save errors are logged and the
// loop keeps going.
func (y *Syncer) Run(ctx context.Context) {
	defer close(y.done)
	for {
		select {
		case <-ctx.Done():
			select {
			case <-y.store.Changes():
				y.save()
			default:
			}
			return
		case <-y.store.Changes():
			y.save()
		}
	}
}

// Done is closed once Run has returned.
func (y *Syncer) Done() <-chan struct{} {
	return y.done
}

func (y *Syncer) save() {
	keys := y.store.Keys()
	if err := y.dest.SaveFavorites(keys); err != nil {
		favLog.Error("favorites_save_failed",
			slog.Int("count", len(keys)),
			slog.String("error", err.Error()),
		)
		return
	}
	favLog.Debug("favorites_saved", slog.Int("count", len(keys)))
}
