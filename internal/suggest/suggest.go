// Package suggest completes filter text from the names and source ids seen
// in the most recent scan.
package suggest

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Sigil marks source-id completion, matching the finder's filter syntax.
const Sigil = "@"

// Index holds the candidate names and source ids. It is rebuilt on every
// refresh and is not safe for concurrent use.
type Index struct {
	names   []string
	sources []string
}

// New returns an empty index.
func New() *Index {
	return &Index{}
}

// Rebuild replaces the candidates. Duplicates and empty strings are dropped.
func (ix *Index) Rebuild(names, sources []string) {
	ix.names = normalize(names)
	ix.sources = normalize(sources)
}

// normalize dedupes and orders candidates case-insensitively, breaking
// ties bytewise so the order never depends on input order.
func normalize(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i]), strings.ToLower(out[j])
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

// Names returns the name candidates in completion order.
func (ix *Index) Names() []string { return ix.names }

// Sources returns the source id candidates in completion order.
func (ix *Index) Sources() []string { return ix.sources }

// Complete returns the first candidate that starts with text, ignoring
// case. Text beginning with Sigil completes against source ids and the
// result keeps the sigil.
func (ix *Index) Complete(text string) (string, bool) {
	if rest, ok := strings.CutPrefix(text, Sigil); ok {
		if s, ok := firstPrefix(ix.sources, rest); ok {
			return Sigil + s, true
		}
		return "", false
	}
	return firstPrefix(ix.names, text)
}

func firstPrefix(candidates []string, prefix string) (string, bool) {
	p := strings.ToLower(prefix)
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), p) {
			return c, true
		}
	}
	return "", false
}

// Suggestion is a fuzzy-ranked candidate.
type Suggestion struct {
	Value   string
	Matched []int
}

type candidates []string

func (c candidates) String(i int) string { return c[i] }
func (c candidates) Len() int            { return len(c) }

// Rank returns up to limit candidates fuzzily matching text, best first.
// Empty text returns nothing. A leading Sigil ranks source ids and the
// sigil is kept on the returned values.
func (ix *Index) Rank(text string, limit int) []Suggestion {
	pool, pattern, prefix := ix.names, text, ""
	if rest, ok := strings.CutPrefix(text, Sigil); ok {
		pool, pattern, prefix = ix.sources, rest, Sigil
	}
	if pattern == "" || limit <= 0 {
		return nil
	}

	matches := fuzzy.FindFrom(pattern, candidates(pool))
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Suggestion, len(matches))
	for i, m := range matches {
		idx := make([]int, len(m.MatchedIndexes))
		for j, k := range m.MatchedIndexes {
			idx[j] = k + len(prefix)
		}
		out[i] = Suggestion{Value: prefix + pool[m.Index], Matched: idx}
	}
	return out
}
