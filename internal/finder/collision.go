package finder

// NameCollisions returns the display names that occur with more than one
// distinct source id among entries.
func NameCollisions(entries []AggregatedEntry) map[string]bool {
	sources := make(map[string]map[string]struct{})
	for _, e := range entries {
		name := e.DisplayName()
		set := sources[name]
		if set == nil {
			set = make(map[string]struct{})
			sources[name] = set
		}
		set[e.Source()] = struct{}{}
	}

	out := make(map[string]bool)
	for name, set := range sources {
		if len(set) > 1 {
			out[name] = true
		}
	}
	return out
}
