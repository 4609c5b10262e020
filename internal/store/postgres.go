package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/anicrunch/anicrunch/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS watchlists (
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	anime_id INTEGER NOT NULL,
	added_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, anime_id)
);
`

// uniqueViolation is the PostgreSQL error code for a unique constraint failure
const uniqueViolation = "23505"

// PostgresStore implements domain.AccountStore on PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the pgx driver and applies the schema
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id, username, password, created_at",
		username, passwordHash,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UserByName(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM users WHERE username=$1",
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) Watchlist(ctx context.Context, userID int64) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT anime_id FROM watchlists WHERE user_id=$1 ORDER BY anime_id",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *PostgresStore) AddToWatchlist(ctx context.Context, userID int64, animeID int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO watchlists (user_id, anime_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		userID, animeID,
	)
	return err
}

func (s *PostgresStore) RemoveFromWatchlist(ctx context.Context, userID int64, animeID int) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM watchlists WHERE user_id=$1 AND anime_id=$2",
		userID, animeID,
	)
	return err
}
