package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/anicrunch/anicrunch/internal/adapter/source/jikan"
	"github.com/anicrunch/anicrunch/internal/fetch"
	"github.com/anicrunch/anicrunch/internal/view"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// envKeys are bound explicitly so env overrides apply to Unmarshal even
// without a config file
var envKeys = []string{
	"upstream.base_url",
	"backend.url",
	"backend.session",
	"fetch.critical_delay_ms",
	"fetch.background_delay_ms",
	"fetch.max_retries",
	"fetch.base_backoff_ms",
	"fetch.cache_ttl_ms",
	"fetch.cache_max_entries",
	"fetch.separate_rate_limit_budget",
	"browser.command",
	"logging.file",
	"logging.level",
}

// Config holds all application configuration
type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	UI       UIConfig       `mapstructure:"ui"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// UpstreamConfig points at the public catalog API
type UpstreamConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// BackendConfig holds the account server and the saved session
type BackendConfig struct {
	URL      string `mapstructure:"url"`      // Empty disables accounts, watchlist and the search proxy
	Session  string `mapstructure:"session"`  // Session cookie value
	Username string `mapstructure:"username"` // Display only
}

// FetchConfig tunes the request queue, retries and response cache
type FetchConfig struct {
	CriticalDelayMs         int  `mapstructure:"critical_delay_ms"`
	BackgroundDelayMs       int  `mapstructure:"background_delay_ms"`
	MaxRetries              int  `mapstructure:"max_retries"`
	BaseBackoffMs           int  `mapstructure:"base_backoff_ms"`
	CacheTTLMs              int  `mapstructure:"cache_ttl_ms"`
	CacheMaxEntries         int  `mapstructure:"cache_max_entries"`
	SeparateRateLimitBudget bool `mapstructure:"separate_rate_limit_budget"`
}

// UIConfig holds UI timing and layout
type UIConfig struct {
	DebounceMs       int `mapstructure:"debounce_ms"`
	HeroIntervalMs   int `mapstructure:"hero_interval_ms"`
	CarouselPageSize int `mapstructure:"carousel_page_size"`
}

// BrowserConfig selects how anime pages are opened
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // Empty uses the system default
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL: jikan.DefaultBaseURL,
		},
		Fetch: FetchConfig{
			CriticalDelayMs:   int(fetch.DefaultCriticalDelay / time.Millisecond),
			BackgroundDelayMs: int(fetch.DefaultBackgroundDelay / time.Millisecond),
			MaxRetries:        fetch.DefaultMaxRetries,
			BaseBackoffMs:     int(fetch.DefaultBaseBackoff / time.Millisecond),
			CacheTTLMs:        int(fetch.DefaultCacheTTL / time.Millisecond),
			CacheMaxEntries:   fetch.DefaultCacheMaxEntries,
		},
		UI: UIConfig{
			DebounceMs:       300,
			HeroIntervalMs:   8000,
			CarouselPageSize: view.DefaultCarouselPageSize,
		},
		Browser: BrowserConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// FetchSettings converts the millisecond keys into a fetch.Config
func (c *Config) FetchSettings() fetch.Config {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return fetch.Config{
		CriticalDelay:           ms(c.Fetch.CriticalDelayMs),
		BackgroundDelay:         ms(c.Fetch.BackgroundDelayMs),
		MaxRetries:              c.Fetch.MaxRetries,
		BaseBackoff:             ms(c.Fetch.BaseBackoffMs),
		CacheTTL:                ms(c.Fetch.CacheTTLMs),
		CacheMaxEntries:         c.Fetch.CacheMaxEntries,
		SeparateRateLimitBudget: c.Fetch.SeparateRateLimitBudget,
	}
}

// ViewSettings converts the UI keys into a view.Config
func (c *Config) ViewSettings() view.Config {
	cfg := view.DefaultConfig()
	if c.UI.DebounceMs > 0 {
		cfg.Debounce = time.Duration(c.UI.DebounceMs) * time.Millisecond
	}
	if c.UI.HeroIntervalMs > 0 {
		cfg.HeroInterval = time.Duration(c.UI.HeroIntervalMs) * time.Millisecond
	}
	if c.UI.CarouselPageSize > 0 {
		cfg.CarouselPageSize = c.UI.CarouselPageSize
	}
	return cfg
}

// HasBackend returns true if an account server is configured
func (c *Config) HasBackend() bool {
	return c.Backend.URL != ""
}

// IsLoggedIn returns true if a session cookie is saved
func (c *Config) IsLoggedIn() bool {
	return c.HasBackend() && c.Backend.Session != ""
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "anicrunch", "anicrunch.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "anicrunch", "anicrunch.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	if dir := os.Getenv("ANICRUNCH_CONFIG_DIR"); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "anicrunch")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "anicrunch")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides, e.g. ANICRUNCH_BACKEND_URL
	viper.SetEnvPrefix("ANICRUNCH")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	viper.Set("upstream.base_url", cfg.Upstream.BaseURL)

	viper.Set("backend.url", cfg.Backend.URL)
	viper.Set("backend.session", cfg.Backend.Session)
	viper.Set("backend.username", cfg.Backend.Username)

	viper.Set("fetch.critical_delay_ms", cfg.Fetch.CriticalDelayMs)
	viper.Set("fetch.background_delay_ms", cfg.Fetch.BackgroundDelayMs)
	viper.Set("fetch.max_retries", cfg.Fetch.MaxRetries)
	viper.Set("fetch.base_backoff_ms", cfg.Fetch.BaseBackoffMs)
	viper.Set("fetch.cache_ttl_ms", cfg.Fetch.CacheTTLMs)
	viper.Set("fetch.cache_max_entries", cfg.Fetch.CacheMaxEntries)
	viper.Set("fetch.separate_rate_limit_budget", cfg.Fetch.SeparateRateLimitBudget)

	viper.Set("ui.debounce_ms", cfg.UI.DebounceMs)
	viper.Set("ui.hero_interval_ms", cfg.UI.HeroIntervalMs)
	viper.Set("ui.carousel_page_size", cfg.UI.CarouselPageSize)

	viper.Set("browser.command", cfg.Browser.Command)
	viper.Set("browser.args", cfg.Browser.Args)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	return writeConfig()
}

// ConfigStore persists the backend session through viper. It implements
// service.SessionStore.
type ConfigStore struct{}

// SaveSession updates just the session keys in the configuration
func (ConfigStore) SaveSession(username, token string) error {
	viper.Set("backend.username", username)
	viper.Set("backend.session", token)
	return writeConfig()
}

// ClearSession removes the saved session while preserving other settings
func (ConfigStore) ClearSession() error {
	viper.Set("backend.username", "")
	viper.Set("backend.session", "")
	return writeConfig()
}

func writeConfig() error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
