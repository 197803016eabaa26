package finder

import "sort"

type partition struct {
	key     string
	members []Entity
}

// partitionBy groups entities by key, keeping groups in order of first
// appearance and members in input order.
func partitionBy(in []Entity, key func(Entity) string) []*partition {
	index := make(map[string]*partition)
	var parts []*partition
	for _, e := range in {
		k := key(e)
		p := index[k]
		if p == nil {
			p = &partition{key: k}
			index[k] = p
			parts = append(parts, p)
		}
		p.members = append(p.members, e)
	}
	return parts
}

// collapse turns members into a single entry whose representative is the
// nearest member. Ties keep input order.
func collapse(members []Entity, override string) AggregatedEntry {
	sorted := make([]Entity, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})
	return AggregatedEntry{
		Representative: sorted[0],
		Count:          len(sorted),
		Override:       override,
		Members:        sorted,
	}
}

func single(e Entity) AggregatedEntry {
	return AggregatedEntry{Representative: e, Count: 1, Members: []Entity{e}}
}

// Aggregate builds list entries from deduplicated entities according to
// mode. sourceLabel provides the group label for GroupBySource.
//
// Collapsed name groups are labelled with the shared base name so that a
// "Large" representative does not rename the whole group.
func Aggregate(in []Entity, mode GroupMode, sourceLabel func(string) string) []AggregatedEntry {
	var out []AggregatedEntry
	switch mode {
	case GroupFavorites:
		for _, e := range in {
			out = append(out, single(e))
		}

	case GroupByName:
		for _, p := range partitionBy(in, func(e Entity) string { return e.Name }) {
			out = append(out, collapse(p.members, p.key))
		}

	case GroupBySource:
		for _, p := range partitionBy(in, func(e Entity) string { return e.Source }) {
			out = append(out, collapse(p.members, sourceLabel(p.key)))
		}

	default:
		for _, p := range partitionBy(in, func(e Entity) string { return e.Name }) {
			if len(p.members) < AutoCollapseThreshold {
				for _, e := range p.members {
					out = append(out, single(e))
				}
				continue
			}
			out = append(out, collapse(p.members, p.key))
		}
	}
	return out
}
