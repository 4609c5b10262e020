package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrTransientUpstream marks failures worth retrying: 429, 5xx, malformed bodies
	ErrTransientUpstream = errors.New("upstream temporarily unavailable")

	// ErrRetriesExhausted indicates every attempt of a fetch failed
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrCancelled indicates the caller's scope was invalidated; never shown to the user
	ErrCancelled = errors.New("request cancelled")

	// ErrEmptyResult indicates a lookup returned no items
	ErrEmptyResult = errors.New("no results")

	// ErrAuthRequired indicates the backend rejected the request for lack of a session
	ErrAuthRequired = errors.New("login required")

	// ErrInvalidCredentials indicates a login attempt was rejected
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists indicates a signup collided with an existing username
	ErrUserExists = errors.New("user already exists")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("backend is unreachable")

	// ErrInvalidWeekday indicates a schedule day outside monday..sunday
	ErrInvalidWeekday = errors.New("invalid weekday")
)
