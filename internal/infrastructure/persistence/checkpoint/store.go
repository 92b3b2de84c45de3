// Package checkpoint persists per-(year, leaderboard) delivery progress so
// the bot can resume after a restart without re-announcing history.
//
// Four backends implement the same Store interface:
//   - FileStore: one timestamp file per pair (the default)
//   - SQLiteStore: single-file embedded database
//   - PostgresStore: shared database, for hosts with ephemeral disks
//   - RedisStore: plain key-value entries
package checkpoint

import (
	"context"
	"time"
)

// DefaultHorizon bounds the replay window when no checkpoint is readable:
// delivery resumes from this far behind the current window instead of from
// the beginning of the year.
const DefaultHorizon = 28 * 24 * time.Hour

// Store persists the timestamp of the last delivered completion for each
// (year, leaderboard) pair.
//
// Read reports ok=false when no checkpoint exists. Callers treat a missing
// checkpoint and a failed read the same way, falling back to DefaultHorizon,
// so a broken backend degrades to a bounded replay rather than an outage.
// Advance overwrites unconditionally and runs after every delivered
// notification, which makes delivery at-least-once across restarts.
type Store interface {
	Read(ctx context.Context, year int, leaderboard string) (ts time.Time, ok bool, err error)
	Advance(ctx context.Context, year int, leaderboard string, ts time.Time) error
}
