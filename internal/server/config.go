package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/anicrunch/anicrunch/internal/adapter/source/jikan"
)

// Config holds backend settings read from the environment
type Config struct {
	Port          string
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	CORSOrigins   []string

	DatabaseURL string // PostgreSQL; empty selects the bbolt store
	StorePath   string // bbolt file; empty keeps accounts in memory
	RedisURL    string // Empty keeps sessions in memory

	UpstreamURL    string
	SearchCache    string // "ristretto" or "bigcache"
	SearchCacheTTL time.Duration

	AuthLimit   int
	AuthWindow  time.Duration
	SearchLimit int
	SearchWin   time.Duration

	LogLevel string
}

// LoadConfig loads .env (if present) and then reads the environment
func LoadConfig(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...) // A missing .env is fine

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("SESSION_TTL", 7*24*time.Hour)
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("STORE_PATH", "anicrunch.db")
	v.SetDefault("UPSTREAM_URL", jikan.DefaultBaseURL)
	v.SetDefault("SEARCH_CACHE", "ristretto")
	v.SetDefault("SEARCH_CACHE_TTL", 10*time.Minute)
	v.SetDefault("AUTH_RATE_LIMIT", 50)
	v.SetDefault("AUTH_RATE_WINDOW", 15*time.Minute)
	v.SetDefault("SEARCH_RATE_LIMIT", 120)
	v.SetDefault("SEARCH_RATE_WINDOW", 5*time.Minute)
	v.SetDefault("LOG_LEVEL", "INFO")

	cfg := &Config{
		Port:           v.GetString("PORT"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),
		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		StorePath:      v.GetString("STORE_PATH"),
		RedisURL:       v.GetString("REDIS_URL"),
		UpstreamURL:    strings.TrimRight(v.GetString("UPSTREAM_URL"), "/"),
		SearchCache:    strings.ToLower(v.GetString("SEARCH_CACHE")),
		SearchCacheTTL: v.GetDuration("SEARCH_CACHE_TTL"),
		AuthLimit:      v.GetInt("AUTH_RATE_LIMIT"),
		AuthWindow:     v.GetDuration("AUTH_RATE_WINDOW"),
		SearchLimit:    v.GetInt("SEARCH_RATE_LIMIT"),
		SearchWin:      v.GetDuration("SEARCH_RATE_WINDOW"),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.SearchCache {
	case "ristretto", "bigcache":
	default:
		return fmt.Errorf("SEARCH_CACHE must be ristretto or bigcache, got %q", c.SearchCache)
	}
	if c.AuthLimit <= 0 || c.SearchLimit <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	if c.AuthWindow <= 0 || c.SearchWin <= 0 || c.SessionTTL <= 0 || c.SearchCacheTTL <= 0 {
		return fmt.Errorf("durations must be positive")
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
