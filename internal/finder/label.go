package finder

import "github.com/tilefinder/tilefinder/internal/world"

// Labeler resolves display names for entities and friendly names for
// source ids.
type Labeler struct {
	registry world.Registry
	sources  map[string]string
}

// NewLabeler returns a labeler backed by reg. overrides maps source ids to
// friendly names and takes precedence over the registry.
func NewLabeler(reg world.Registry, overrides map[string]string) *Labeler {
	return &Labeler{registry: reg, sources: overrides}
}

// Name picks the entity's custom name, then the item name of its type,
// then the localized type name, falling back to the raw type id.
func (l *Labeler) Name(src world.Source, h world.Handle, t world.TypeID) string {
	if name, ok := src.DisplayNameOf(h); ok && name != "" {
		return name
	}
	return l.TypeName(t)
}

// TypeName is the registry name of t: its item name, then its localized
// name, falling back to the raw type id.
func (l *Labeler) TypeName(t world.TypeID) string {
	if name, ok := l.registry.ItemName(t); ok {
		return name
	}
	if name, ok := l.registry.LocalizedName(t); ok {
		return name
	}
	return string(t)
}

// Icon returns the item whose icon represents t, or "" when the type has
// no item form.
func (l *Labeler) Icon(t world.TypeID) world.TypeID {
	if _, ok := l.registry.ItemName(t); ok {
		return t
	}
	return ""
}

// SourceName returns a friendly name for a source id, or the id itself.
func (l *Labeler) SourceName(id string) string {
	if name, ok := l.sources[id]; ok && name != "" {
		return name
	}
	if name, ok := l.registry.SourceName(id); ok {
		return name
	}
	return id
}

// SourceLabel is the group label used in GroupBySource: "Friendly (id)".
func (l *Labeler) SourceLabel(id string) string {
	return l.SourceName(id) + " (" + id + ")"
}
