package jikan

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// DefaultBaseURL is the public catalog API
const DefaultBaseURL = "https://api.jikan.moe/v4"

// Page sizes and list limits used by the client
const (
	PageSize       = 24
	RowLimit       = 25
	FeaturedLimit  = 7
	TopRatedLimit  = 10
	PopularitySort = "popularity"
)

// URLs builds request URLs against a base. The built URL is also the cache key,
// so parameter order is fixed by url.Values' sorted encoding.
type URLs struct {
	base string
}

// NewURLs trims a trailing slash from base; an empty base uses DefaultBaseURL.
func NewURLs(base string) URLs {
	if base == "" {
		base = DefaultBaseURL
	}
	return URLs{base: strings.TrimRight(base, "/")}
}

func (u URLs) build(path string, q url.Values) string {
	if len(q) == 0 {
		return u.base + path
	}
	return u.base + path + "?" + q.Encode()
}

// Search is a title search
func (u URLs) Search(query string) string {
	return u.build("/anime", url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(PageSize)},
	})
}

// GenrePage is one popularity-ordered, SFW page of a genre
func (u URLs) GenrePage(genreID, page int) string {
	if page < 1 {
		page = 1
	}
	return u.build("/anime", url.Values{
		"genres":   {strconv.Itoa(genreID)},
		"order_by": {PopularitySort},
		"sfw":      {"true"},
		"limit":    {strconv.Itoa(PageSize)},
		"page":     {strconv.Itoa(page)},
	})
}

// Seasonal is the current season
func (u URLs) Seasonal() string {
	return u.build("/seasons/now", url.Values{"sfw": {"true"}, "limit": {strconv.Itoa(RowLimit)}})
}

// Trending is the airing top list
func (u URLs) Trending() string {
	return u.top(true, RowLimit)
}

// Featured is the short airing list rotated in the hero banner
func (u URLs) Featured() string {
	return u.top(true, FeaturedLimit)
}

// TopRated is the all-time top rail
func (u URLs) TopRated() string {
	return u.top(false, TopRatedLimit)
}

func (u URLs) top(airing bool, limit int) string {
	q := url.Values{"sfw": {"true"}, "limit": {strconv.Itoa(limit)}}
	if airing {
		q.Set("filter", "airing")
	}
	return u.build("/top/anime", q)
}

// Schedule is the broadcast list for a day
func (u URLs) Schedule(day domain.Weekday) string {
	return u.build("/schedules", url.Values{"filter": {string(day)}, "sfw": {"true"}})
}

// Random is a random SFW title
func (u URLs) Random() string {
	return u.build("/random/anime", url.Values{"sfw": {"true"}})
}

// Anime is the full record for one title
func (u URLs) Anime(id int) string {
	return u.build(fmt.Sprintf("/anime/%d/full", id), nil)
}
