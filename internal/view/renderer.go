package view

import "github.com/anicrunch/anicrunch/internal/domain"

// Renderer receives presentation updates from the Controller.
//
// Implementations must be safe for concurrent use and must not call back into
// the Controller synchronously: results-area calls are made while the
// Controller holds its lock.
type Renderer interface {
	// StateChanged reports every ViewState swap
	StateChanged(state ViewState)

	// Loading shows n skeleton placeholders in section
	Loading(section Section, n int)

	// Cards shows items in section, appended to what is there when appendItems
	Cards(section Section, items []domain.Anime, appendItems bool)

	// Empty shows an explicit empty state
	Empty(section Section, message string)

	// Failed shows a retry affordance for section
	Failed(section Section, err error)

	// LoadMore updates the pagination affordance; err is set for LoadMoreFailed
	LoadMore(status LoadMoreStatus, err error)

	// Carousel reports a row's page position
	Carousel(section Section, state CarouselState)

	// Hero reports the visible hero slide
	Hero(slide HeroSlide)
}
