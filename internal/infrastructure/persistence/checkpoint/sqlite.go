package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// sqliteSchema holds every checkpoint in one table keyed by pair.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS checkpoints (
	year        INTEGER NOT NULL,
	leaderboard TEXT    NOT NULL,
	ts          TEXT    NOT NULL,
	PRIMARY KEY (year, leaderboard)
)`

// SQLiteStore persists checkpoints in a single-file SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path, creating file and schema as
// needed.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, shared.WrapError("checkpoint", "Open", shared.ErrFilesystem, "open sqlite database", err)
	}

	// The delivery loop is sequential; a single connection sidesteps
	// SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, shared.WrapError("checkpoint", "Open", shared.ErrFilesystem, "create checkpoints table", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Read implements Store.
func (s *SQLiteStore) Read(ctx context.Context, year int, leaderboard string) (time.Time, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT ts FROM checkpoints WHERE year = ? AND leaderboard = ?`,
		year, leaderboard,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, shared.WrapError("checkpoint", "Read", shared.ErrFilesystem, "query checkpoint", err)
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, shared.WrapError("checkpoint", "Read", shared.ErrFilesystem, "parse checkpoint timestamp", err)
	}
	return ts.UTC(), true, nil
}

// Advance implements Store.
func (s *SQLiteStore) Advance(ctx context.Context, year int, leaderboard string, ts time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (year, leaderboard, ts) VALUES (?, ?, ?)
		 ON CONFLICT (year, leaderboard) DO UPDATE SET ts = excluded.ts`,
		year, leaderboard, ts.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return shared.WrapError("checkpoint", "Advance", shared.ErrFilesystem, "upsert checkpoint", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
