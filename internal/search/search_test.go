package search

import (
	"testing"

	"github.com/anicrunch/anicrunch/internal/domain"
)

func titles(items []domain.Anime) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func animeList(ts ...string) []domain.Anime {
	out := make([]domain.Anime, len(ts))
	for i, t := range ts {
		out[i] = domain.Anime{ID: i + 1, Title: t}
	}
	return out
}

func TestRank(t *testing.T) {
	items := animeList(
		"Shingeki no Kyojin",
		"Attack on Titan Season 2",
		"Bungou Stray Dogs",
		"Attack on Titan",
		"The Attack of the Killer Tomatoes",
	)

	got := titles(Rank(items, "Attack on Titan"))
	want := []string{
		"Attack on Titan",
		"Attack on Titan Season 2",
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("Rank()[%d] = %q, want %q (all: %v)", i, got[i], w, got)
		}
	}
	if len(got) != len(items) {
		t.Fatalf("Rank dropped items: %v", got)
	}
}

func TestRankKeepsOrderOnTies(t *testing.T) {
	items := animeList("Naruto", "Naruto Shippuden", "Boruto")
	got := titles(Rank(items, ""))
	for i := range items {
		if got[i] != items[i].Title {
			t.Fatalf("empty query reordered results: %v", got)
		}
	}
}

func TestFilter(t *testing.T) {
	items := animeList("Cowboy Bebop", "Fullmetal Alchemist", "Bleach")

	tests := []struct {
		pattern string
		want    []int
	}{
		{"", []int{0, 1, 2}},
		{"bebop", []int{0}},
		{"fma", []int{1}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := Filter(items, tt.pattern)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter(%q) = %v, want indexes %v", tt.pattern, got, tt.want)
			}
			for i, idx := range tt.want {
				if got[i].Index != idx {
					t.Fatalf("Filter(%q)[%d].Index = %d, want %d", tt.pattern, i, got[i].Index, idx)
				}
			}
		})
	}
}
