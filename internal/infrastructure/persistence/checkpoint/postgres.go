package checkpoint

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// postgresSchema mirrors the SQLite layout with a native timestamp column.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	year        INTEGER     NOT NULL,
	leaderboard TEXT        NOT NULL,
	ts          TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (year, leaderboard)
)`

// PostgresStore persists checkpoints in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects using a pgx connection URL, verifies the server
// is reachable and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, shared.WrapError("checkpoint", "Open", shared.ErrFilesystem, "parse postgres url", err)
	}

	// The delivery loop is sequential; two connections cover it.
	poolConfig.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, shared.WrapError("checkpoint", "Open", shared.ErrFilesystem, "create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, shared.WrapError("checkpoint", "Open", shared.ErrFilesystem, "ping database", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, shared.WrapError("checkpoint", "Open", shared.ErrFilesystem, "create checkpoints table", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Read implements Store.
func (s *PostgresStore) Read(ctx context.Context, year int, leaderboard string) (time.Time, bool, error) {
	var ts time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT ts FROM checkpoints WHERE year = $1 AND leaderboard = $2`,
		year, leaderboard,
	).Scan(&ts)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, shared.WrapError("checkpoint", "Read", shared.ErrFilesystem, "query checkpoint", err)
	}
	return ts.UTC(), true, nil
}

// Advance implements Store.
func (s *PostgresStore) Advance(ctx context.Context, year int, leaderboard string, ts time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO checkpoints (year, leaderboard, ts) VALUES ($1, $2, $3)
		 ON CONFLICT (year, leaderboard) DO UPDATE SET ts = EXCLUDED.ts`,
		year, leaderboard, ts.UTC(),
	)
	if err != nil {
		return shared.WrapError("checkpoint", "Advance", shared.ErrFilesystem, "upsert checkpoint", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
