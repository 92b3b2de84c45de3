package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// FileStore keeps one RFC 3339 timestamp file per (year, leaderboard) pair
// in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the checkpoint directory if needed. An empty dir
// means the working directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, shared.WrapError("checkpoint", "Open", shared.ErrFilesystem, "create checkpoint directory", err)
	}
	return &FileStore{dir: dir}, nil
}

// path names the per-pair file so different years and boards never collide.
func (s *FileStore) path(year int, leaderboard string) string {
	return filepath.Join(s.dir, fmt.Sprintf("timestamp_%d_%s", year, leaderboard))
}

// Read implements Store.
func (s *FileStore) Read(ctx context.Context, year int, leaderboard string) (time.Time, bool, error) {
	raw, err := os.ReadFile(s.path(year, leaderboard))
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, shared.WrapError("checkpoint", "Read", shared.ErrFilesystem, "read checkpoint file", err)
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, false, shared.WrapError("checkpoint", "Read", shared.ErrFilesystem, "parse checkpoint timestamp", err)
	}
	return ts.UTC(), true, nil
}

// Advance implements Store.
func (s *FileStore) Advance(ctx context.Context, year int, leaderboard string, ts time.Time) error {
	data := []byte(ts.UTC().Format(time.RFC3339) + "\n")
	if err := os.WriteFile(s.path(year, leaderboard), data, 0o644); err != nil {
		return shared.WrapError("checkpoint", "Advance", shared.ErrFilesystem, "write checkpoint file", err)
	}
	return nil
}
