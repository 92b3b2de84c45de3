package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// redisKeyPrefix namespaces checkpoint keys.
const redisKeyPrefix = "checkpoint:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// Addr is the server address in "host:port" format.
	Addr string

	// Password is the authentication password (empty if no auth).
	Password string

	// DB is the database number.
	DB int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultRedisConfig returns a sensible default configuration.
func DefaultRedisConfig(addr string) RedisConfig {
	return RedisConfig{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// RedisStore persists checkpoints as plain RFC 3339 strings in Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and verifies the server is reachable.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, shared.WrapError("checkpoint", "Open", shared.ErrFilesystem, "ping redis", err)
	}

	return &RedisStore{client: client}, nil
}

// redisKey generates the key for one (year, leaderboard) pair.
func redisKey(year int, leaderboard string) string {
	return fmt.Sprintf("%s%s:%d", redisKeyPrefix, leaderboard, year)
}

// Read implements Store.
func (s *RedisStore) Read(ctx context.Context, year int, leaderboard string) (time.Time, bool, error) {
	raw, err := s.client.Get(ctx, redisKey(year, leaderboard)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, shared.WrapError("checkpoint", "Read", shared.ErrFilesystem, "get checkpoint key", err)
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, shared.WrapError("checkpoint", "Read", shared.ErrFilesystem, "parse checkpoint timestamp", err)
	}
	return ts.UTC(), true, nil
}

// Advance implements Store.
func (s *RedisStore) Advance(ctx context.Context, year int, leaderboard string, ts time.Time) error {
	err := s.client.Set(ctx, redisKey(year, leaderboard), ts.UTC().Format(time.RFC3339), 0).Err()
	if err != nil {
		return shared.WrapError("checkpoint", "Advance", shared.ErrFilesystem, "set checkpoint key", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
