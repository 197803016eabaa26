package finder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tilefinder/tilefinder/internal/world"
)

// Entity is one logical object found by a scan. Distance is derived from
// the viewer at refresh time and is not meaningful across refreshes.
type Entity struct {
	Handle    world.Handle `json:"-"`
	Pos       world.Pos    `json:"pos"`
	Dimension string       `json:"dimension"`
	Type      world.TypeID `json:"type"`
	// Name is the resolved display name. Name grouping and suggestions key
	// on it.
	Name string `json:"name"`
	// Label overrides Name for presentation only, e.g. "Large Chest".
	Label    string       `json:"label,omitempty"`
	Source   string       `json:"source"`
	Icon     world.TypeID `json:"icon,omitempty"`
	Distance float64      `json:"distance"`
}

// DisplayName is the label shown for the entity.
func (e Entity) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Name
}

// Key is the favorites key for the entity's position.
func (e Entity) Key() string {
	return FavoriteKey(e.Dimension, e.Pos)
}

// FavoriteKey formats "dimension:x:y:z".
func FavoriteKey(dimension string, p world.Pos) string {
	return fmt.Sprintf("%s:%d:%d:%d", dimension, p.X, p.Y, p.Z)
}

// ParseFavoriteKey splits a key produced by FavoriteKey. The dimension may
// itself contain colons ("minecraft:overworld").
func ParseFavoriteKey(key string) (string, world.Pos, error) {
	parts := strings.Split(key, ":")
	if len(parts) < 4 {
		return "", world.Pos{}, fmt.Errorf("favorite key %q: want dimension:x:y:z", key)
	}
	n := len(parts)
	var coords [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(parts[n-3+i])
		if err != nil {
			return "", world.Pos{}, fmt.Errorf("favorite key %q: bad coordinate %q", key, parts[n-3+i])
		}
		coords[i] = v
	}
	dim := strings.Join(parts[:n-3], ":")
	if dim == "" {
		return "", world.Pos{}, fmt.Errorf("favorite key %q: empty dimension", key)
	}
	return dim, world.Pos{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// AggregatedEntry is one list row before presentation flags are applied.
// Members are ordered nearest first and Representative is Members[0].
type AggregatedEntry struct {
	Representative Entity   `json:"representative"`
	Count          int      `json:"count"`
	Override       string   `json:"override,omitempty"`
	Members        []Entity `json:"members,omitempty"`
}

// DisplayName returns the group label if set, else the representative's.
func (a AggregatedEntry) DisplayName() string {
	if a.Override != "" {
		return a.Override
	}
	return a.Representative.DisplayName()
}

// Source is the representative's source id.
func (a AggregatedEntry) Source() string { return a.Representative.Source }

// Distance is the representative's distance.
func (a AggregatedEntry) Distance() float64 { return a.Representative.Distance }

// Row is a presentation-ready entry.
type Row struct {
	Entry         AggregatedEntry `json:"entry"`
	Favorite      bool            `json:"favorite"`
	NameCollision bool            `json:"name_collision"`
	// SourceName is the friendly name of the entry's source.
	SourceName string `json:"source_name"`
}

// Title is the row label, suffixed with the friendly source name when the
// same label comes from more than one source.
func (r Row) Title() string {
	if r.NameCollision {
		return r.Entry.DisplayName() + " (" + r.SourceName + ")"
	}
	return r.Entry.DisplayName()
}
