package finder

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/tilefinder/tilefinder/internal/logging"
	"github.com/tilefinder/tilefinder/internal/suggest"
	"github.com/tilefinder/tilefinder/internal/world"
)

var finderLog = logging.ForComponent(logging.CompFinder)

// FavoriteSet answers favorites membership.
type FavoriteSet interface {
	Contains(key string) bool
}

type noFavorites struct{}

func (noFavorites) Contains(string) bool { return false }

// Pipeline turns a world scan into display rows. A refresh is synchronous
// and deterministic for a given world, query and favorites set.
type Pipeline struct {
	source      world.Source
	registry    world.Registry
	labeler     *Labeler
	favorites   FavoriteSet
	suggestions *suggest.Index
}

// NewPipeline wires a pipeline. labeler, favs and suggestions may be nil.
func NewPipeline(src world.Source, reg world.Registry, labeler *Labeler, favs FavoriteSet, suggestions *suggest.Index) *Pipeline {
	if favs == nil {
		favs = noFavorites{}
	}
	if suggestions == nil {
		suggestions = suggest.New()
	}
	if labeler == nil {
		labeler = NewLabeler(reg, nil)
	}
	return &Pipeline{
		source:      src,
		registry:    reg,
		labeler:     labeler,
		favorites:   favs,
		suggestions: suggestions,
	}
}

// Suggestions returns the index rebuilt by every refresh.
func (p *Pipeline) Suggestions() *suggest.Index { return p.suggestions }

// Labeler returns the pipeline's labeler.
func (p *Pipeline) Labeler() *Labeler { return p.labeler }

// Result is the outcome of one refresh.
type Result struct {
	Query     QueryState
	Viewer    world.Viewer
	HasViewer bool
	// Scanned counts entities returned by the scan; Logical counts them
	// after composite deduplication.
	Scanned int
	Logical int
	Rows    []Row
}

// Refresh runs the full pipeline for q: scan, deduplicate, favorites
// filter, aggregate, text filter, sort and collision marking. The
// suggestion index is rebuilt from the deduplicated scan before any
// filtering. Without a viewer the result is empty.
func (p *Pipeline) Refresh(q QueryState) Result {
	q = q.Normalized()
	res := Result{Query: q}

	v, ok := p.source.Viewer()
	if !ok {
		p.suggestions.Rebuild(nil, nil)
		finderLog.Debug("refresh_without_viewer")
		return res
	}
	res.Viewer, res.HasViewer = v, true

	raw := p.Snapshot(v, q.Radius)
	logical := Deduplicate(p.source, p.registry, raw)
	res.Scanned, res.Logical = len(raw), len(logical)
	p.rebuildSuggestions(logical)

	candidates := logical
	if q.Group == GroupFavorites {
		candidates = make([]Entity, 0, len(logical))
		for _, e := range logical {
			if p.favorites.Contains(e.Key()) {
				candidates = append(candidates, e)
			}
		}
	}

	entries := Aggregate(candidates, q.Group, p.labeler.SourceLabel)
	entries = Filter(entries, q.Filter)
	Sort(entries, q.Sort)
	collisions := NameCollisions(entries)

	res.Rows = make([]Row, len(entries))
	for i, e := range entries {
		res.Rows[i] = Row{
			Entry:         e,
			Favorite:      p.favorites.Contains(e.Representative.Key()),
			NameCollision: collisions[e.DisplayName()],
			SourceName:    p.labeler.SourceName(e.Source()),
		}
	}

	logging.Aggregate(logging.CompFinder, "refresh",
		slog.Int("radius", q.Radius),
		slog.String("group", q.Group.String()),
		slog.Int("scanned", res.Scanned),
		slog.Int("rows", len(res.Rows)),
	)
	return res
}

// Snapshot scans around v and resolves every handle that still exists.
// Handles that vanish between scan and lookup are skipped.
func (p *Pipeline) Snapshot(v world.Viewer, radius int) []Entity {
	handles := p.source.Scan(v.Pos.Cell(), radius)
	out := make([]Entity, 0, len(handles))
	skipped := 0
	for _, h := range handles {
		pos, ok := p.source.PositionOf(h)
		if !ok {
			skipped++
			continue
		}
		t, ok := p.source.TypeIDOf(h)
		if !ok {
			skipped++
			continue
		}
		out = append(out, Entity{
			Handle:    h,
			Pos:       pos,
			Dimension: v.Dimension,
			Type:      t,
			Name:      p.labeler.Name(p.source, h, t),
			Source:    t.Namespace(),
			Icon:      p.labeler.Icon(t),
			Distance:  v.Pos.Distance(pos.Center()),
		})
	}
	if skipped > 0 {
		finderLog.Debug("snapshot_skipped_vanished", slog.Int("count", skipped))
	}
	return out
}

func (p *Pipeline) rebuildSuggestions(entities []Entity) {
	names := make([]string, 0, len(entities))
	sources := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
		sources = append(sources, e.Source)
	}
	p.suggestions.Rebuild(names, sources)
}

// TypeCount summarizes one entity type inside the scan radius.
type TypeCount struct {
	Type    world.TypeID `json:"type"`
	Name    string       `json:"name"`
	Source  string       `json:"source"`
	Count   int          `json:"count"`
	Nearest Entity       `json:"nearest"`
	// Members are all entities of the type, nearest first.
	Members []Entity `json:"members"`
}

// TypeMatcher is a compiled type overview filter. Text starting with
// SourceSigil matches when the rest is a substring of the namespace. Any
// other text matches a substring of the namespace, the type path or the
// type name. Matching is case-insensitive and empty text matches
// everything.
type TypeMatcher struct {
	namespaceOnly bool
	needle        string
}

// NewTypeMatcher compiles filter text for Overview.
func NewTypeMatcher(text string) TypeMatcher {
	needle := strings.ToLower(text)
	if rest, ok := strings.CutPrefix(needle, SourceSigil); ok {
		return TypeMatcher{namespaceOnly: true, needle: rest}
	}
	return TypeMatcher{needle: needle}
}

// Match reports whether type t, named name, passes the filter.
func (m TypeMatcher) Match(t world.TypeID, name string) bool {
	ns := strings.ToLower(t.Namespace())
	if m.namespaceOnly {
		return strings.Contains(ns, m.needle)
	}
	return strings.Contains(ns, m.needle) ||
		strings.Contains(strings.ToLower(t.Path()), m.needle) ||
		strings.Contains(strings.ToLower(name), m.needle)
}

// Overview counts deduplicated entities per type, most common first, ties
// broken by type id. Types not matching filter (see TypeMatcher) are left
// out.
func (p *Pipeline) Overview(radius int, filter string) []TypeCount {
	v, ok := p.source.Viewer()
	if !ok {
		return nil
	}
	logical := Deduplicate(p.source, p.registry, p.Snapshot(v, ClampRadius(radius)))

	match := NewTypeMatcher(filter)
	var out []TypeCount
	for _, part := range partitionBy(logical, func(e Entity) string { return string(e.Type) }) {
		t := world.TypeID(part.key)
		name := p.labeler.TypeName(t)
		if !match.Match(t, name) {
			continue
		}
		entry := collapse(part.members, "")
		out = append(out, TypeCount{
			Type:    t,
			Name:    name,
			Source:  entry.Representative.Source,
			Count:   entry.Count,
			Nearest: entry.Representative,
			Members: entry.Members,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}
