package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// Launcher opens anime pages in a web browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// start runs the command without waiting for it
	start func(name string, args ...string) error
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		start:   startCommand,
	}
}

// Open opens rawURL in the configured browser or the system default
func (l *Launcher) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not a web URL", rawURL)
	}

	name, args := l.commandFor(u.String())
	l.logger.Info("opening in browser", "command", name, "url", u.String())
	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// commandFor builds the command line for the current platform
func (l *Launcher) commandFor(target string) (string, []string) {
	if l.command != "" {
		args := append([]string{}, l.args...)
		return l.command, append(args, target)
	}

	switch runtime.GOOS {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "cmd", []string{"/c", "start", "", target}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{target}
	}
}

func startCommand(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return errors.Join(fmt.Errorf("%s not found in PATH", name), err)
	}
	return exec.Command(name, args...).Start()
}
