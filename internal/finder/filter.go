package finder

import "strings"

// SourceSigil starts a filter that matches source ids instead of names.
const SourceSigil = "@"

// Matcher is a compiled filter.
type Matcher struct {
	bySource bool
	needle   string
}

// NewMatcher compiles filter text. Text starting with SourceSigil matches
// when the rest is a case-insensitive substring of the source id; any other
// text matches case-insensitively against the display name. Empty text and
// a bare sigil match everything.
func NewMatcher(text string) Matcher {
	if rest, ok := strings.CutPrefix(text, SourceSigil); ok {
		return Matcher{bySource: true, needle: strings.ToLower(rest)}
	}
	return Matcher{needle: strings.ToLower(text)}
}

// Match reports whether e passes the filter.
func (m Matcher) Match(e AggregatedEntry) bool {
	if m.needle == "" {
		return true
	}
	if m.bySource {
		return strings.Contains(strings.ToLower(e.Source()), m.needle)
	}
	return strings.Contains(strings.ToLower(e.DisplayName()), m.needle)
}

// Filter keeps the entries matching text, preserving order.
func Filter(in []AggregatedEntry, text string) []AggregatedEntry {
	m := NewMatcher(text)
	out := make([]AggregatedEntry, 0, len(in))
	for _, e := range in {
		if m.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
