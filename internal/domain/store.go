package domain

import "context"

// AccountStore persists backend users and their watchlists.
// Implementations: bbolt file store, PostgreSQL.
type AccountStore interface {
	// CreateUser inserts a user; returns ErrUserExists on a username collision
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// UserByName returns ErrNotFound when absent
	UserByName(ctx context.Context, username string) (*User, error)

	// Watchlist returns anime ids in ascending order
	Watchlist(ctx context.Context, userID int64) ([]int, error)

	// AddToWatchlist is idempotent
	AddToWatchlist(ctx context.Context, userID int64, animeID int) error

	// RemoveFromWatchlist is a no-op when the id is absent
	RemoveFromWatchlist(ctx context.Context, userID int64, animeID int) error

	Close() error
}
