package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anicrunch/anicrunch/internal/adapter"
	"github.com/anicrunch/anicrunch/internal/domain"
	"github.com/anicrunch/anicrunch/internal/server"
	"github.com/anicrunch/anicrunch/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var envFile string
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&envFile, "env", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	if showVersion {
		fmt.Printf("anicrunch-server %s\n", Version)
		return
	}

	if err := run(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := server.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := adapter.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	accounts, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer accounts.Close()

	var sessions server.SessionStore
	if cfg.RedisURL != "" {
		sessions, err = server.NewRedisSessions(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("sessions in redis")
	} else {
		sessions = server.NewMemorySessions()
	}
	defer sessions.Close()

	srv, err := server.New(cfg, accounts, sessions, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	logger.Info("starting anicrunch backend", "version", Version)
	return srv.Run(ctx)
}

// openStore picks PostgreSQL when DATABASE_URL is set, else the bbolt file
func openStore(ctx context.Context, cfg *server.Config, logger *slog.Logger) (domain.AccountStore, error) {
	if cfg.DatabaseURL != "" {
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Info("accounts in postgres")
		return pg, nil
	}

	bolt, err := store.NewBoltStore(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if cfg.StorePath == "" {
		logger.Warn("STORE_PATH is empty; accounts are kept in memory")
	} else {
		logger.Info("accounts in bolt", "path", cfg.StorePath)
	}
	return bolt, nil
}
