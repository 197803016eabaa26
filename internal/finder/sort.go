package finder

import (
	"sort"
	"strings"
)

// Sort orders entries in place. All orders are stable, so equal keys keep
// their aggregation order.
func Sort(entries []AggregatedEntry, mode SortMode) {
	switch mode {
	case SortName:
		keys := make([]string, len(entries))
		for i, e := range entries {
			keys[i] = strings.ToLower(e.DisplayName())
		}
		sort.Stable(byKey{entries, keys})
	case SortSource:
		keys := make([]string, len(entries))
		for i, e := range entries {
			keys[i] = e.Source()
		}
		sort.Stable(byKey{entries, keys})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Distance() < entries[j].Distance()
		})
	}
}

// byKey sorts entries by a precomputed string key, swapping both slices.
type byKey struct {
	entries []AggregatedEntry
	keys    []string
}

func (b byKey) Len() int           { return len(b.entries) }
func (b byKey) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byKey) Swap(i, j int) {
	b.entries[i], b.entries[j] = b.entries[j], b.entries[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
