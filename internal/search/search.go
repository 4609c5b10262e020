// Package search ranks and filters anime lists by title.
package search

import (
	"sort"
	"strings"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Rank reorders results by how well their titles match query.
// Exact beats prefix beats substring beats edit distance; ties keep the
// upstream order.
func Rank(items []domain.Anime, query string) []domain.Anime {
	query = strings.ToLower(strings.TrimSpace(query))
	if len(items) < 2 || query == "" {
		return items
	}

	type ranked struct {
		item  domain.Anime
		score int
	}
	rs := make([]ranked, len(items))
	for i, item := range items {
		rs[i] = ranked{item: item, score: matchScore(strings.ToLower(item.Title), query)}
	}

	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].score < rs[j].score
	})

	out := make([]domain.Anime, len(rs))
	for i, r := range rs {
		out[i] = r.item
	}
	return out
}

// matchScore is lower for better matches
func matchScore(title, query string) int {
	switch {
	case title == query:
		return 0
	case strings.HasPrefix(title, query):
		return 10
	case strings.Contains(title, query):
		return 50
	case fuzzy.MatchFold(query, title):
		return 75
	}
	return 100 + fuzzy.LevenshteinDistance(query, title)
}
