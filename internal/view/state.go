// Package view coordinates what the UI is showing: the single live ViewState,
// debounced search, cancellable result loads, pagination, home rows and the
// rotating hero banner. It renders through the Renderer interface and never
// touches presentation directly.
package view

import "github.com/anicrunch/anicrunch/internal/domain"

// Mode is what the main area is displaying
type Mode int

const (
	ModeHome Mode = iota
	ModeSearch
	ModeGenre
	ModeSchedule
	ModeWatchlist
)

func (m Mode) String() string {
	switch m {
	case ModeHome:
		return "home"
	case ModeSearch:
		return "search"
	case ModeGenre:
		return "genre"
	case ModeSchedule:
		return "schedule"
	case ModeWatchlist:
		return "watchlist"
	default:
		return "unknown"
	}
}

// ViewState is the single authoritative record of the main area.
// It is replaced as a whole value on every transition.
type ViewState struct {
	Mode    Mode
	Query   string
	Genre   domain.Genre
	Day     domain.Weekday
	Page    int
	Loading bool
	HasMore bool
}

// Title is the heading for the results area
func (s ViewState) Title() string {
	switch s.Mode {
	case ModeSearch:
		return "Results for \"" + s.Query + "\""
	case ModeGenre:
		return s.Genre.Name
	case ModeSchedule:
		return "Airing " + s.Day.Title()
	case ModeWatchlist:
		return "My Watchlist"
	default:
		return "Home"
	}
}

// Section names an independently loaded, independently retried area
type Section string

const (
	SectionResults  Section = "results"
	SectionHero     Section = "hero"
	SectionSeasonal Section = "seasonal"
	SectionTrending Section = "trending"
	SectionTop      Section = "top"
)

// HomeSections lists the home page areas in display order
var HomeSections = []Section{SectionHero, SectionSeasonal, SectionTrending, SectionTop}

// LoadMoreStatus is the state of the pagination affordance
type LoadMoreStatus int

const (
	LoadMoreHidden LoadMoreStatus = iota
	LoadMoreReady
	LoadMoreLoading
	LoadMoreFailed
)
