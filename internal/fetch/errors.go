package fetch

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anicrunch/anicrunch/internal/domain"
)

var (
	// ErrRateLimited is an upstream 429
	ErrRateLimited = fmt.Errorf("%w: rate limited", domain.ErrTransientUpstream)

	// ErrMalformedBody is a response that could not be parsed as JSON
	ErrMalformedBody = fmt.Errorf("%w: malformed response body", domain.ErrTransientUpstream)

	// ErrClosed is returned for tasks still pending when the coordinator shuts down
	ErrClosed = errors.New("fetch coordinator closed")
)

// StatusError is a non-2xx response other than 429.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Is classifies 5xx as transient and 401 as an auth failure.
func (e *StatusError) Is(target error) bool {
	switch target {
	case domain.ErrTransientUpstream:
		return e.Code >= http.StatusInternalServerError
	case domain.ErrAuthRequired:
		return e.Code == http.StatusUnauthorized
	case domain.ErrNotFound:
		return e.Code == http.StatusNotFound
	}
	return false
}

// ExhaustedError is returned after the final attempt fails.
type ExhaustedError struct {
	URL      string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("fetch %s: %d attempts failed: %v", e.URL, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Is makes every ExhaustedError match domain.ErrRetriesExhausted.
func (e *ExhaustedError) Is(target error) bool {
	return target == domain.ErrRetriesExhausted
}

func cancelled(cause error) error {
	return fmt.Errorf("%w: %w", domain.ErrCancelled, cause)
}
