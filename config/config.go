package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Backend names a checkpoint persistence backend.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// Scheduling bounds, all in minutes. Periods must divide one day evenly so
// that windows stay aligned to calendar-day boundaries; heartbeat and
// standings intervals must be multiples of the period so their boundaries
// coincide with wakeups.
const (
	MinPeriodMinutes   = 15
	MaxPeriodMinutes   = 1440
	MaxIntervalMinutes = 10080

	DefaultPeriodMinutes    = 60
	DefaultStandingsMinutes = 1440
)

// dayFactors lists the factors of 1440 that are at least 15, ascending. A
// requested period is rounded up to the next entry.
var dayFactors = []int{
	15, 16, 18, 20, 24, 30, 32, 36, 40, 45, 48, 60, 72, 80, 90, 96,
	120, 144, 160, 180, 240, 288, 360, 480, 720, 1440,
}

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Leaderboard feed
	Feed FeedConfig

	// Outbound webhooks
	Webhooks WebhookConfig

	// Checkpoint persistence
	Checkpoint CheckpointConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
	Version     string
}

// FeedConfig holds the upstream leaderboard settings.
type FeedConfig struct {
	// Base URL of the Advent of Code site
	BaseURL string

	// Private leaderboard identifier
	Leaderboard string

	// Session cookie value, copied from a logged-in browser
	Session string

	// Request timeout
	Timeout time.Duration
}

// WebhookConfig holds the outbound webhook settings. Either URL may be
// empty, which silently disables its channel.
type WebhookConfig struct {
	NotifyURL string
	StatusURL string

	// Request timeout
	Timeout time.Duration
}

// CheckpointConfig holds the checkpoint persistence settings. Only the
// fields of the selected backend are consulted.
type CheckpointConfig struct {
	Backend Backend

	// file backend
	Dir string

	// sqlite backend
	SQLitePath string

	// postgres backend
	PostgresURL string

	// redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// ScheduleConfig holds the normalized scheduling flags.
type ScheduleConfig struct {
	AllYears bool

	// Period is the iteration period; always a factor of one day.
	Period time.Duration

	// Heartbeat is the heartbeat interval; zero disables heartbeats.
	Heartbeat time.Duration

	// Standings is the standings-report interval during December.
	Standings time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App:        loadAppConfig(),
		Feed:       loadFeedConfig(),
		Webhooks:   loadWebhookConfig(),
		Checkpoint: loadCheckpointConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("FESTIVE_BOT_ENV", string(EnvDevelopment)))

	return AppConfig{
		Name:        getEnv("FESTIVE_BOT_NAME", "festive-bot"),
		Environment: env,
		Debug:       env == EnvDevelopment || getEnvBool("FESTIVE_BOT_DEBUG", false),
		Version:     getEnv("FESTIVE_BOT_VERSION", "1.2.0"),
	}
}

func loadFeedConfig() FeedConfig {
	return FeedConfig{
		BaseURL:     getEnv("FESTIVE_BOT_AOC_URL", "https://adventofcode.com"),
		Leaderboard: getEnv("FESTIVE_BOT_LEADERBOARD", ""),
		Session:     getEnv("FESTIVE_BOT_SESSION", ""),
		Timeout:     getEnvDuration("FESTIVE_BOT_AOC_TIMEOUT", 30*time.Second),
	}
}

func loadWebhookConfig() WebhookConfig {
	return WebhookConfig{
		NotifyURL: getEnv("FESTIVE_BOT_NOTIFY", ""),
		StatusURL: getEnv("FESTIVE_BOT_STATUS", ""),
		Timeout:   getEnvDuration("FESTIVE_BOT_WEBHOOK_TIMEOUT", 30*time.Second),
	}
}

func loadCheckpointConfig() CheckpointConfig {
	return CheckpointConfig{
		Backend:       Backend(getEnv("FESTIVE_BOT_CHECKPOINT", string(BackendFile))),
		Dir:           getEnv("FESTIVE_BOT_CHECKPOINT_DIR", "."),
		SQLitePath:    getEnv("FESTIVE_BOT_SQLITE_PATH", "festive-bot.db"),
		PostgresURL:   getEnv("FESTIVE_BOT_POSTGRES_URL", ""),
		RedisAddr:     getEnv("FESTIVE_BOT_REDIS_ADDR", ""),
		RedisPassword: getEnv("FESTIVE_BOT_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("FESTIVE_BOT_REDIS_DB", 0),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Feed.Leaderboard == "" {
		errs = append(errs, "FESTIVE_BOT_LEADERBOARD is required")
	}
	if c.Feed.Session == "" {
		errs = append(errs, "FESTIVE_BOT_SESSION is required")
	}

	switch c.Checkpoint.Backend {
	case BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.Checkpoint.PostgresURL == "" {
			errs = append(errs, "FESTIVE_BOT_POSTGRES_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.Checkpoint.RedisAddr == "" {
			errs = append(errs, "FESTIVE_BOT_REDIS_ADDR is required for the redis backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("FESTIVE_BOT_CHECKPOINT must be one of file, sqlite, postgres, redis; got %q", c.Checkpoint.Backend))
	}

	if len(errs) > 0 {
		return shared.NewError("config", "Validate", shared.ErrConfigMissing,
			strings.Join(errs, "; "))
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// NewSchedule validates and normalizes the scheduling flags. The period is
// rounded up to the next factor of one day, and the heartbeat and standings
// intervals to the next multiple of the resulting period. A heartbeat of
// zero stays zero, disabling heartbeats.
func NewSchedule(allYears bool, periodMins, heartbeatMins, standingsMins int) (ScheduleConfig, error) {
	if periodMins < MinPeriodMinutes || periodMins > MaxPeriodMinutes {
		return ScheduleConfig{}, fmt.Errorf(
			"the mins parameter of --period must be between %d and %d, got %d",
			MinPeriodMinutes, MaxPeriodMinutes, periodMins)
	}
	period := dayFactors[sort.SearchInts(dayFactors, periodMins)]

	schedule := ScheduleConfig{
		AllYears: allYears,
		Period:   time.Duration(period) * time.Minute,
	}

	if heartbeatMins != 0 {
		if heartbeatMins < 1 || heartbeatMins > MaxIntervalMinutes {
			return ScheduleConfig{}, fmt.Errorf(
				"the mins parameter of --heartbeat must be between 1 and %d, got %d",
				MaxIntervalMinutes, heartbeatMins)
		}
		schedule.Heartbeat = time.Duration(roundToMultiple(heartbeatMins, period)) * time.Minute
	}

	if standingsMins < 1 || standingsMins > MaxIntervalMinutes {
		return ScheduleConfig{}, fmt.Errorf(
			"the mins parameter of --standings must be between 1 and %d, got %d",
			MaxIntervalMinutes, standingsMins)
	}
	schedule.Standings = time.Duration(roundToMultiple(standingsMins, period)) * time.Minute

	return schedule, nil
}

// roundToMultiple rounds mins up to the next multiple of period. Every
// factor of one day divides one week, so rounded intervals never leave the
// accepted range.
func roundToMultiple(mins, period int) int {
	return (mins + period - 1) / period * period
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
