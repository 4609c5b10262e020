package domain

import "context"

// CatalogRepository provides access to the upstream anime catalog.
// Every call names the lane it should be scheduled on.
type CatalogRepository interface {
	// Search performs a free-text title search
	Search(ctx context.Context, query string, p Priority) ([]Anime, error)

	// GenrePage returns one popularity-ordered page of a genre (1-based)
	GenrePage(ctx context.Context, genreID, page int, p Priority) ([]Anime, error)

	// Seasonal returns the current season's lineup
	Seasonal(ctx context.Context, p Priority) ([]Anime, error)

	// Trending returns currently airing titles by rank
	Trending(ctx context.Context, p Priority) ([]Anime, error)

	// TopRated returns the all-time top rail
	TopRated(ctx context.Context, p Priority) ([]Anime, error)

	// Featured returns the short list rotated in the hero banner
	Featured(ctx context.Context, p Priority) ([]Anime, error)

	// Schedule returns what airs on the given day
	Schedule(ctx context.Context, day Weekday, p Priority) ([]Anime, error)

	// Random returns a random title, never served from cache
	Random(ctx context.Context, p Priority) (*Anime, error)

	// Anime returns a single title by id
	Anime(ctx context.Context, id int, p Priority) (*Anime, error)
}

// SearchRepository is the backend's own cached search proxy
type SearchRepository interface {
	Search(ctx context.Context, query string) ([]Anime, error)
}

// AccountRepository manages the backend session
type AccountRepository interface {
	// Me returns the logged-in user, or nil when the session is anonymous
	Me(ctx context.Context) (*User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Signup(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error

	// SessionToken returns the current session cookie value, empty when none
	SessionToken() string
}

// WatchlistRepository manages the logged-in user's watchlist
type WatchlistRepository interface {
	Watchlist(ctx context.Context) ([]int, error)
	AddToWatchlist(ctx context.Context, animeID int) error
	RemoveFromWatchlist(ctx context.Context, animeID int) error
}
