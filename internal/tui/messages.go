package tui

import (
	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/view"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Renderer events, one per view.Renderer call

// StateChangedMsg carries a new ViewState
type StateChangedMsg struct {
	State view.ViewState
}

// SectionLoadingMsg shows skeletons in a section
type SectionLoadingMsg struct {
	Section view.Section
	Count   int
}

// CardsMsg shows cards in a section
type CardsMsg struct {
	Section view.Section
	Items   []domain.Anime
	Append  bool
}

// SectionEmptyMsg shows an empty state
type SectionEmptyMsg struct {
	Section view.Section
	Message string
}

// SectionFailedMsg shows a retry affordance
type SectionFailedMsg struct {
	Section view.Section
	Err     error
}

// LoadMoreMsg updates the pagination footer
type LoadMoreMsg struct {
	Status view.LoadMoreStatus
	Err    error
}

// CarouselMsg reports a row's page
type CarouselMsg struct {
	Section view.Section
	State   view.CarouselState
}

// HeroMsg reports the visible hero slide
type HeroMsg struct {
	Slide view.HeroSlide
}

// RandomPickedMsg carries the result of a spin
type RandomPickedMsg struct {
	Anime domain.Anime
}

// DetailsLoadedMsg carries the full record of an anime
type DetailsLoadedMsg struct {
	Anime domain.Anime
}

// WatchlistToggledMsg signals that an anime was added or removed
type WatchlistToggledMsg struct {
	Anime domain.Anime
	Added bool
}

// WatchlistLoadedMsg carries the saved ids
type WatchlistLoadedMsg struct {
	IDs []int
}

// BrowserOpenedMsg signals that an anime page was handed to the browser
type BrowserOpenedMsg struct {
	URL string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
