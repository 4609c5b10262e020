package components

import (
	"errors"

	"github.com/anicrunch/anicrunch/internal/domain"
)

// ShelfStatus is what a section is currently showing
type ShelfStatus int

const (
	ShelfIdle ShelfStatus = iota
	ShelfLoading
	ShelfCards
	ShelfEmpty
	ShelfFailed
)

// Shelf holds the renderer-driven content of one section: skeletons while
// loading, cards, an empty message or a failure with a retry hint.
type Shelf struct {
	Status    ShelfStatus
	Items     []domain.Anime
	Skeletons int
	Message   string
	Err       error
}

// SetLoading replaces the content with n skeleton placeholders
func (s *Shelf) SetLoading(n int) {
	*s = Shelf{Status: ShelfLoading, Skeletons: n}
}

// SetCards shows items, appended to the current cards when appendItems
func (s *Shelf) SetCards(items []domain.Anime, appendItems bool) {
	if appendItems && s.Status == ShelfCards {
		s.Items = append(s.Items, items...)
		return
	}
	*s = Shelf{Status: ShelfCards, Items: append([]domain.Anime(nil), items...)}
}

// SetEmpty shows an explicit empty state
func (s *Shelf) SetEmpty(message string) {
	*s = Shelf{Status: ShelfEmpty, Message: message}
}

// SetFailed shows err with a retry hint
func (s *Shelf) SetFailed(err error) {
	*s = Shelf{Status: ShelfFailed, Err: err}
}

// FailureText is the message shown for a failed section
func FailureText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrAuthRequired):
		return "Log in to see this (anicrunch login)"
	case errors.Is(err, domain.ErrRetriesExhausted), errors.Is(err, domain.ErrTransientUpstream):
		return "The catalog is busy right now"
	case errors.Is(err, domain.ErrServerOffline):
		return "The server is unreachable"
	default:
		return "Something went wrong"
	}
}
