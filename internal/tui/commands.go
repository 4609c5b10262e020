package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/view"
)

// Command factories for async operations

// requestTimeout bounds one-off catalog and backend calls. Queue waits count
// against it, so it is generous.
const requestTimeout = 60 * time.Second

// Watchlist is the watchlist state the UI reads and toggles
type Watchlist interface {
	IDs(ctx context.Context) ([]int, error)
	Contains(id int) bool
	Toggle(ctx context.Context, id int) (bool, error)
}

// Opener hands a page URL to the system browser
type Opener interface {
	Open(rawURL string) error
}

// StartHomeCmd loads the home rows. The results arrive as renderer events.
func StartHomeCmd(ctrl *view.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.LoadHome()
		return nil
	}
}

// RandomCmd spins for a random title on the critical lane
func RandomCmd(catalog domain.CatalogRepository) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		anime, err := catalog.Random(ctx, domain.PriorityCritical)
		if err != nil {
			return ErrMsg{Err: err, Context: "picking a random anime"}
		}
		return RandomPickedMsg{Anime: *anime}
	}
}

// DetailsCmd loads the full record of an anime for the inspector
func DetailsCmd(catalog domain.CatalogRepository, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		anime, err := catalog.Anime(ctx, id, domain.PriorityCritical)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading details"}
		}
		return DetailsLoadedMsg{Anime: *anime}
	}
}

// LoadWatchlistCmd fetches the saved ids so cards can be marked
func LoadWatchlistCmd(wl Watchlist) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		ids, err := wl.IDs(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading watchlist"}
		}
		return WatchlistLoadedMsg{IDs: ids}
	}
}

// ToggleWatchlistCmd adds or removes anime from the watchlist
func ToggleWatchlistCmd(wl Watchlist, anime domain.Anime) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		added, err := wl.Toggle(ctx, anime.ID)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating watchlist"}
		}
		return WatchlistToggledMsg{Anime: anime, Added: added}
	}
}

// OpenCmd opens an anime page in the browser
func OpenCmd(opener Opener, url string) tea.Cmd {
	return func() tea.Msg {
		if err := opener.Open(url); err != nil {
			return ErrMsg{Err: err, Context: "opening browser"}
		}
		return BrowserOpenedMsg{URL: url}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
