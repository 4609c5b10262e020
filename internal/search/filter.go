package search

import (
	"strings"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/sahilm/fuzzy"
)

// Match is one filter hit, with rune positions for highlighting
type Match struct {
	Index          int // Position in the filtered list
	MatchedIndexes []int
}

// titleSource adapts a list for sahilm/fuzzy without copying titles
type titleSource struct {
	lower []string
}

func (s titleSource) String(i int) string { return s.lower[i] }
func (s titleSource) Len() int            { return len(s.lower) }

// Filter returns the entries of items whose titles fuzzily contain pattern,
// best matches first. An empty pattern matches everything in order.
func Filter(items []domain.Anime, pattern string) []Match {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		out := make([]Match, len(items))
		for i := range items {
			out[i] = Match{Index: i}
		}
		return out
	}

	src := titleSource{lower: make([]string, len(items))}
	for i, item := range items {
		src.lower[i] = strings.ToLower(item.Title)
	}

	found := fuzzy.FindFrom(pattern, src)
	out := make([]Match, len(found))
	for i, m := range found {
		out[i] = Match{Index: m.Index, MatchedIndexes: m.MatchedIndexes}
	}
	return out
}
