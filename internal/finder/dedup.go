package finder

import "github.com/tilefinder/tilefinder/internal/world"

// LargePrefix is prepended to the name of a merged composite.
const LargePrefix = "Large "

// Deduplicate collapses two-cell composites into a single entity.
//
// A composite entity with a same-type composite neighbour to its west or
// north is the secondary half and is dropped. A kept composite with a
// same-type composite neighbour to its east or south is labelled
// "Large <Name>". Neighbours are looked up in src, so a partner outside the
// scan radius still counts. Only west/north decide which half is dropped;
// the kept half's own west/north is not re-checked.
func Deduplicate(src world.Source, reg world.Registry, in []Entity) []Entity {
	out := make([]Entity, 0, len(in))
	for _, e := range in {
		if !reg.IsComposite(e.Type) {
			out = append(out, e)
			continue
		}
		if hasCompositeNeighbour(src, e, world.West) || hasCompositeNeighbour(src, e, world.North) {
			continue
		}
		if hasCompositeNeighbour(src, e, world.East) || hasCompositeNeighbour(src, e, world.South) {
			e.Label = LargePrefix + e.Name
		}
		out = append(out, e)
	}
	return out
}

func hasCompositeNeighbour(src world.Source, e Entity, d world.Direction) bool {
	h, ok := src.HandleAt(e.Pos.Offset(d))
	if !ok {
		return false
	}
	t, ok := src.TypeIDOf(h)
	return ok && t == e.Type
}
