package finder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tilefinder/tilefinder/internal/favorites"
	"github.com/tilefinder/tilefinder/internal/history"
	"github.com/tilefinder/tilefinder/internal/world"
)

// ErrNoEntry is returned when an index does not address a current row.
var ErrNoEntry = errors.New("no such entry")

// Target is what navigation receives when an entry is selected.
type Target struct {
	Dimension string    `json:"dimension"`
	Pos       world.Pos `json:"pos"`
	Label     string    `json:"label"`
	Distance  float64   `json:"distance"`
}

func (t Target) String() string {
	return fmt.Sprintf("%s at %s in %s (%.1f away)", t.Label, t.Pos, t.Dimension, t.Distance)
}

// Navigator receives the selected target.
type Navigator interface {
	Navigate(t Target) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Target) error

// Navigate calls f.
func (f NavigatorFunc) Navigate(t Target) error { return f(t) }

// MetaStore is the small key/value store preferences live in.
type MetaStore interface {
	GetMeta(key string) (string, error)
	SetMeta(key, value string) error
}

// HistoryStore persists filter history.
type HistoryStore interface {
	SaveHistory(entries []string) error
}

const (
	metaGroupMode = "last_group_mode"
	metaSortMode  = "last_sort_mode"
)

// LoadPreferences reads the remembered modes. Missing or unknown values
// fall back to the defaults.
func LoadPreferences(m MetaStore) (Preferences, error) {
	var p Preferences
	g, err := m.GetMeta(metaGroupMode)
	if err != nil {
		return p, err
	}
	s, err := m.GetMeta(metaSortMode)
	if err != nil {
		return p, err
	}
	if mode, err := ParseGroupMode(g); err == nil {
		p.Group = mode
	}
	if mode, err := ParseSortMode(s); err == nil {
		p.Sort = mode
	}
	return p, nil
}

// SavePreferences writes the remembered modes.
func SavePreferences(m MetaStore, p Preferences) error {
	if err := m.SetMeta(metaGroupMode, p.Group.String()); err != nil {
		return err
	}
	return m.SetMeta(metaSortMode, p.Sort.String())
}

// Shared is the process-wide state every session works on. Stores are
// optional; without them changes stay in memory.
type Shared struct {
	Favorites *favorites.Store
	History   *history.Buffer
	Prefs     *Preferences

	PrefStore    MetaStore
	HistoryStore HistoryStore
}

// NewShared returns in-memory shared state.
func NewShared() *Shared {
	return &Shared{
		Favorites: favorites.NewStore(),
		History:   history.New(),
		Prefs:     &Preferences{},
	}
}

// Session is one open finder: a query plus the rows it last produced.
// Every state change refreshes synchronously. Sessions must be driven from
// a single goroutine.
type Session struct {
	pipeline *Pipeline
	shared   *Shared
	nav      Navigator

	query  QueryState
	result Result
}

// NewSession starts a session at radius using the remembered modes, and
// runs the first refresh.
func NewSession(p *Pipeline, shared *Shared, radius int, nav Navigator) *Session {
	s := &Session{
		pipeline: p,
		shared:   shared,
		nav:      nav,
		query: QueryState{
			Radius: ClampRadius(radius),
			Group:  shared.Prefs.Group,
			Sort:   shared.Prefs.Sort,
		},
	}
	s.Refresh()
	return s
}

// Refresh recomputes the rows for the current query.
func (s *Session) Refresh() Result {
	s.result = s.pipeline.Refresh(s.query)
	return s.result
}

// Query returns the current query.
func (s *Session) Query() QueryState { return s.query }

// Result returns the last refresh outcome.
func (s *Session) Result() Result { return s.result }

// Rows returns the last refreshed rows.
func (s *Session) Rows() []Row { return s.result.Rows }

// Suggest returns up to limit fuzzy suggestions for the current filter.
func (s *Session) Suggest(limit int) []string {
	ranked := s.pipeline.Suggestions().Rank(s.query.Filter, limit)
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Value
	}
	return out
}

// SetFilter replaces the filter text. This is an edit, so history recall
// starts over.
func (s *Session) SetFilter(text string) {
	s.shared.History.Reset()
	s.query.Filter = text
	s.Refresh()
}

// SubmitFilter records the current filter in history.
func (s *Session) SubmitFilter() {
	if !s.shared.History.Record(s.query.Filter) {
		return
	}
	if s.shared.HistoryStore == nil {
		return
	}
	if err := s.shared.HistoryStore.SaveHistory(s.shared.History.Entries()); err != nil {
		finderLog.Warn("history_save_failed", slog.String("error", err.Error()))
	}
}

// RecallHistory replaces the filter with the history entry in direction d.
// It reports false when there is no history.
func (s *Session) RecallHistory(d history.Direction) bool {
	text, ok := s.shared.History.Navigate(d)
	if !ok {
		return false
	}
	s.query.Filter = text
	s.Refresh()
	return true
}

// Complete extends the filter with the first matching suggestion.
func (s *Session) Complete() bool {
	text, ok := s.pipeline.Suggestions().Complete(s.query.Filter)
	if !ok {
		return false
	}
	s.SetFilter(text)
	return true
}

// SetRadius sets the scan radius, clamped.
func (s *Session) SetRadius(r int) {
	s.query.Radius = ClampRadius(r)
	s.Refresh()
}

// GrowRadius widens the scan by one step.
func (s *Session) GrowRadius() { s.SetRadius(s.query.Radius + RadiusStep) }

// ShrinkRadius narrows the scan by one step.
func (s *Session) ShrinkRadius() { s.SetRadius(s.query.Radius - RadiusStep) }

// CycleGroup advances the grouping mode and remembers it.
func (s *Session) CycleGroup() GroupMode {
	s.SetGroup(s.query.Group.Next())
	return s.query.Group
}

// CycleSort advances the sort mode and remembers it.
func (s *Session) CycleSort() SortMode {
	s.SetSort(s.query.Sort.Next())
	return s.query.Sort
}

// SetGroup switches to grouping g and remembers it. Setting the current
// mode does nothing.
func (s *Session) SetGroup(g GroupMode) {
	if g == s.query.Group {
		return
	}
	s.query.Group = g
	s.shared.Prefs.Group = g
	s.savePrefs()
	s.Refresh()
}

// SetSort switches to order m and remembers it.
func (s *Session) SetSort(m SortMode) {
	if m == s.query.Sort {
		return
	}
	s.query.Sort = m
	s.shared.Prefs.Sort = m
	s.savePrefs()
	s.Refresh()
}

func (s *Session) savePrefs() {
	if s.shared.PrefStore == nil {
		return
	}
	if err := SavePreferences(s.shared.PrefStore, *s.shared.Prefs); err != nil {
		finderLog.Warn("preferences_save_failed", slog.String("error", err.Error()))
	}
}

// ToggleFavorite flips the favorite state of row i's representative and
// reports whether it is now a favorite.
func (s *Session) ToggleFavorite(i int) (bool, error) {
	row, err := s.row(i)
	if err != nil {
		return false, err
	}
	added := s.shared.Favorites.Toggle(row.Entry.Representative.Key())
	s.Refresh()
	return added, nil
}

// SelectEntry sends row i's representative to the navigator.
func (s *Session) SelectEntry(i int) (Target, error) {
	row, err := s.row(i)
	if err != nil {
		return Target{}, err
	}
	return s.navigate(row.Entry.Representative, row.Title())
}

// SelectMember sends member j of row i to the navigator.
func (s *Session) SelectMember(i, j int) (Target, error) {
	row, err := s.row(i)
	if err != nil {
		return Target{}, err
	}
	if j < 0 || j >= len(row.Entry.Members) {
		return Target{}, fmt.Errorf("member %d of row %d: %w", j, i, ErrNoEntry)
	}
	m := row.Entry.Members[j]
	return s.navigate(m, m.DisplayName())
}

func (s *Session) row(i int) (Row, error) {
	if i < 0 || i >= len(s.result.Rows) {
		return Row{}, fmt.Errorf("row %d: %w", i, ErrNoEntry)
	}
	return s.result.Rows[i], nil
}

func (s *Session) navigate(e Entity, label string) (Target, error) {
	t := Target{Dimension: e.Dimension, Pos: e.Pos, Label: label, Distance: e.Distance}
	if s.nav == nil {
		return t, nil
	}
	if err := s.nav.Navigate(t); err != nil {
		return t, fmt.Errorf("navigate to %s: %w", t.Pos, err)
	}
	finderLog.Info("target_selected",
		slog.String("label", label),
		slog.String("pos", t.Pos.String()),
	)
	return t, nil
}
