package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anicrunch/anicrunch/internal/adapter"
	"github.com/anicrunch/anicrunch/internal/adapter/source/backend"
	"github.com/anicrunch/anicrunch/internal/adapter/source/jikan"
	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/fetch"
	"github.com/anicrunch/anicrunch/internal/service"
	"github.com/anicrunch/anicrunch/internal/tui"
	"github.com/anicrunch/anicrunch/internal/tui/styles"
	"github.com/anicrunch/anicrunch/internal/view"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

const usage = `Usage: anicrunch [flags] [command]

Commands:
  (none)   browse the catalog
  login    log in to the configured backend
  signup   create a backend account
  logout   end the saved session
  whoami   show the logged-in user

Flags:
`

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("anicrunch %s\n", Version)
		return
	}

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	if len(args) == 0 {
		return runBrowser(cfg, logger)
	}

	switch args[0] {
	case "login", "signup", "logout", "whoami":
		return runAccount(args[0], cfg, logger)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// runBrowser starts the TUI
func runBrowser(cfg *adapter.Config, logger *slog.Logger) error {
	logger.Info("starting anicrunch", "version", Version)

	coordinator := fetch.NewCoordinator(cfg.FetchSettings(), fetch.WithLogger(logger))
	defer coordinator.Close()

	catalog := jikan.NewClient(cfg.Upstream.BaseURL, coordinator, logger)

	// Interface values stay nil unless a backend is configured
	var (
		backendSearch domain.SearchRepository
		resolver      view.WatchlistResolver
		watchlist     tui.Watchlist
	)
	if cfg.HasBackend() {
		client, err := backend.NewClient(cfg.Backend.URL, cfg.Backend.Session, logger)
		if err != nil {
			return err
		}
		backendSearch = client
		if cfg.IsLoggedIn() {
			wl := service.NewWatchlistService(client, catalog, logger)
			resolver = wl
			watchlist = wl
		}
	}

	events := tui.NewRenderer()
	defer events.Close()

	ctrl := view.NewController(catalog, backendSearch, resolver, events, cfg.ViewSettings(), logger)
	defer ctrl.Close()

	launcher := adapter.NewLauncher(cfg.Browser.Command, cfg.Browser.Args, logger)
	model := tui.NewModel(ctrl, events, catalog, watchlist, launcher, cfg.Backend.Username)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	stats := coordinator.Stats()
	logger.Info("shutting down",
		"critical_pending", stats.Critical,
		"background_pending", stats.Background,
		"cached", stats.Cached,
	)
	return nil
}

// runAccount handles the login, signup, logout and whoami commands
func runAccount(command string, cfg *adapter.Config, logger *slog.Logger) error {
	if !cfg.HasBackend() {
		return errors.New("no backend configured; set backend.url in config.yaml or ANICRUNCH_BACKEND_URL")
	}

	client, err := backend.NewClient(cfg.Backend.URL, cfg.Backend.Session, logger)
	if err != nil {
		return err
	}
	sessions := service.NewSessionService(client, adapter.ConfigStore{}, logger)
	ctx := context.Background()

	switch command {
	case "login", "signup":
		username, password, err := adapter.NewPrompter().Credentials()
		if err != nil {
			return err
		}
		auth, label := sessions.Login, "Logging in..."
		if command == "signup" {
			auth, label = sessions.Signup, "Creating account..."
		}

		var user string
		err = withSpinner(label, func(ctx context.Context) error {
			var err error
			user, err = auth(ctx, username, password)
			return err
		})
		if err != nil {
			return describeAuthError(err)
		}
		fmt.Printf("✓ Logged in as %s\n", user)

	case "logout":
		if !cfg.IsLoggedIn() {
			fmt.Println("Not logged in.")
			return nil
		}
		if err := sessions.Logout(ctx); err != nil {
			return fmt.Errorf("logged out locally, but the backend said: %w", err)
		}
		fmt.Println("✓ Logged out")

	case "whoami":
		user, err := sessions.WhoAmI(ctx)
		if err != nil {
			return describeAuthError(err)
		}
		if user == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Println(user.Username)
	}
	return nil
}

func describeAuthError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errors.New("invalid username or password")
	case errors.Is(err, domain.ErrUserExists):
		return errors.New("that username is taken")
	case errors.Is(err, domain.ErrServerOffline):
		return errors.New("the backend is unreachable")
	default:
		return err
	}
}

// withSpinner runs fn while animating a spinner on the terminal
func withSpinner(label string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	frame := 0
	fmt.Printf("\r%s %s", styles.SpinnerFrames[frame], label)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			fmt.Print(clearSpinnerLine)
			return err
		case <-ticker.C:
			frame++
			fmt.Printf("\r%s %s", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)], label)
		}
	}
}
