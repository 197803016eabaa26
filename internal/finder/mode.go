package finder

import (
	"fmt"
	"strings"
)

// GroupMode selects how entities are combined into list entries.
type GroupMode int

const (
	// GroupNone lists entities individually, collapsing any name with
	// AutoCollapseThreshold or more members.
	GroupNone GroupMode = iota
	// GroupFavorites lists only favorited entities, individually.
	GroupFavorites
	// GroupByName collapses all entities sharing a name.
	GroupByName
	// GroupBySource collapses all entities sharing a source id.
	GroupBySource
)

// AutoCollapseThreshold is the name-group size at which GroupNone collapses.
const AutoCollapseThreshold = 20

var groupModeNames = [...]string{"none", "favorites", "name", "source"}

func (m GroupMode) String() string {
	if m < 0 || int(m) >= len(groupModeNames) {
		return fmt.Sprintf("GroupMode(%d)", int(m))
	}
	return groupModeNames[m]
}

// Next returns the following mode in cycle order.
func (m GroupMode) Next() GroupMode {
	return GroupMode((int(m) + 1) % len(groupModeNames))
}

// ParseGroupMode accepts a mode name or one of its aliases.
func ParseGroupMode(s string) (GroupMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return GroupNone, nil
	case "favorites", "fav", "favs":
		return GroupFavorites, nil
	case "name", "byname":
		return GroupByName, nil
	case "source", "mod", "modid", "bysource":
		return GroupBySource, nil
	}
	return GroupNone, fmt.Errorf("unknown group mode %q (want none, favorites, name or source)", s)
}

// SortMode selects row order.
type SortMode int

const (
	SortDistance SortMode = iota
	SortName
	SortSource
)

var sortModeNames = [...]string{"distance", "name", "source"}

func (m SortMode) String() string {
	if m < 0 || int(m) >= len(sortModeNames) {
		return fmt.Sprintf("SortMode(%d)", int(m))
	}
	return sortModeNames[m]
}

// Next returns the following mode in cycle order.
func (m SortMode) Next() SortMode {
	return SortMode((int(m) + 1) % len(sortModeNames))
}

// ParseSortMode accepts a mode name or one of its aliases.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distance", "dist", "":
		return SortDistance, nil
	case "name":
		return SortName, nil
	case "source", "mod", "modid":
		return SortSource, nil
	}
	return SortDistance, fmt.Errorf("unknown sort mode %q (want distance, name or source)", s)
}
