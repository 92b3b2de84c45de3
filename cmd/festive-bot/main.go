// Package main is the entrypoint for Festive Bot, a webhook notification
// bot for private Advent of Code leaderboards.
//
// The bot polls the leaderboard API on an aligned period and announces new
// puzzle completions, daily unlocks, periodic standings, and heartbeats
// through two webhook channels: "notify" for festive content and "status"
// for operational messages.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/festive-hub/festive-bot/config"
	"github.com/festive-hub/festive-bot/internal/application/sync"
	"github.com/festive-hub/festive-bot/internal/infrastructure/external/aoc"
	"github.com/festive-hub/festive-bot/internal/infrastructure/external/discord"
	"github.com/festive-hub/festive-bot/internal/infrastructure/persistence/checkpoint"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND
// ══════════════════════════════════════════════════════════════════════════════

func newRootCommand() *cobra.Command {
	var (
		allYears      bool
		periodMins    int
		heartbeatMins int
		standingsMins int
	)

	cmd := &cobra.Command{
		Use:          "festive-bot",
		Short:        "Notification bot for private Advent of Code leaderboards",
		SilenceUsage: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env is fine; variables may come from the host.
			_ = godotenv.Load()

			schedule, err := config.NewSchedule(allYears, periodMins, heartbeatMins, standingsMins)
			if err != nil {
				return err
			}

			// Flag validation is done; all remaining failures are
			// operational, not usage errors.
			cmd.SilenceUsage = true

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, schedule)
		},
	}

	cmd.Flags().BoolVar(&allYears, "all-years", false,
		"poll every live year each pass instead of only the current one")
	cmd.Flags().IntVar(&periodMins, "period", config.DefaultPeriodMinutes,
		"iteration period in minutes (15-1440, rounded up to a factor of one day)")
	cmd.Flags().IntVar(&heartbeatMins, "heartbeat", 0,
		"heartbeat interval in minutes (1-10080, rounded up to a multiple of the period; 0 disables)")
	cmd.Flags().IntVar(&standingsMins, "standings", config.DefaultStandingsMinutes,
		"standings report interval in minutes (1-10080, rounded up to a multiple of the period)")

	return cmd
}

// ══════════════════════════════════════════════════════════════════════════════
// RUN
// ══════════════════════════════════════════════════════════════════════════════

func run(ctx context.Context, cfg *config.Config, schedule config.ScheduleConfig) error {
	log := setupLogger(cfg)
	log.Info("starting Festive Bot",
		"version", cfg.App.Version,
		"env", cfg.App.Environment,
		"leaderboard", cfg.Feed.Leaderboard,
		"checkpoint_backend", cfg.Checkpoint.Backend,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 1. OUTBOUND WEBHOOKS
	// ─────────────────────────────────────────────────────────────────────────
	discordConfig := discord.DefaultClientConfig(cfg.Webhooks.NotifyURL, cfg.Webhooks.StatusURL)
	discordConfig.Timeout = cfg.Webhooks.Timeout
	discordConfig.Logger = log
	discordConfig.Debug = cfg.App.Debug
	dispatcher := &webhookDispatcher{client: discord.NewClient(discordConfig)}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LEADERBOARD FEED
	// ─────────────────────────────────────────────────────────────────────────
	aocConfig := aoc.DefaultClientConfig(cfg.Feed.Leaderboard, cfg.Feed.Session)
	aocConfig.BaseURL = cfg.Feed.BaseURL
	aocConfig.Timeout = cfg.Feed.Timeout
	aocConfig.Logger = log
	aocConfig.Debug = cfg.App.Debug
	feed := aoc.NewClient(aocConfig)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. CHECKPOINT STORE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("opening checkpoint store", "backend", cfg.Checkpoint.Backend)
	store, err := newCheckpointStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint store: %w", err)
	}
	if closer, ok := store.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn("closing checkpoint store", "error", err)
			}
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. TERMINATION SIGNALS
	// ─────────────────────────────────────────────────────────────────────────
	// The handler races the main loop for the status channel; a garbled
	// final message is acceptable on the way out.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		log.Info("received termination signal", "signal", sig.String())
		_ = dispatcher.Status(context.Background(), "🤖 Received termination signal, exiting!")
		os.Exit(0)
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ENGINE
	// ─────────────────────────────────────────────────────────────────────────
	engine := sync.NewEngine(feed, dispatcher, store, nil, log, sync.Config{
		Leaderboard: cfg.Feed.Leaderboard,
		AllYears:    schedule.AllYears,
		Period:      schedule.Period,
		Heartbeat:   schedule.Heartbeat,
		Standings:   schedule.Standings,
		Version:     cfg.App.Version,
	})

	if err := engine.Run(ctx); err != nil {
		log.Error("unrecoverable error", "error", err)

		// Best-effort farewell; the process is already exiting.
		_ = dispatcher.Status(context.Background(), "⚠ Festive Bot experienced an unrecoverable error, exiting!")
		_ = dispatcher.Status(context.Background(), fmt.Sprintf("⚠ Error: %s", err))
		return err
	}
	return nil
}

// newCheckpointStore constructs the checkpoint backend selected by the
// configuration.
func newCheckpointStore(ctx context.Context, cfg *config.Config) (checkpoint.Store, error) {
	switch cfg.Checkpoint.Backend {
	case config.BackendFile:
		return checkpoint.NewFileStore(cfg.Checkpoint.Dir)
	case config.BackendSQLite:
		return checkpoint.NewSQLiteStore(ctx, cfg.Checkpoint.SQLitePath)
	case config.BackendPostgres:
		return checkpoint.NewPostgresStore(ctx, cfg.Checkpoint.PostgresURL)
	case config.BackendRedis:
		redisConfig := checkpoint.DefaultRedisConfig(cfg.Checkpoint.RedisAddr)
		redisConfig.Password = cfg.Checkpoint.RedisPassword
		redisConfig.DB = cfg.Checkpoint.RedisDB
		return checkpoint.NewRedisStore(ctx, redisConfig)
	default:
		return nil, fmt.Errorf("unsupported checkpoint backend %q", cfg.Checkpoint.Backend)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging: JSON in production for log
// aggregators, text elsewhere for readability.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// ══════════════════════════════════════════════════════════════════════════════
// ADAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// webhookDispatcher adapts the Discord webhook client to the engine's
// dispatcher interface.
type webhookDispatcher struct {
	client *discord.Client
}

// Notify implements sync.Dispatcher.
func (d *webhookDispatcher) Notify(ctx context.Context, content string, attachments ...sync.Attachment) error {
	return d.client.Send(ctx, discord.ChannelNotify, content, convertAttachments(attachments)...)
}

// Status implements sync.Dispatcher.
func (d *webhookDispatcher) Status(ctx context.Context, content string, attachments ...sync.Attachment) error {
	return d.client.Send(ctx, discord.ChannelStatus, content, convertAttachments(attachments)...)
}

func convertAttachments(attachments []sync.Attachment) []discord.Attachment {
	out := make([]discord.Attachment, len(attachments))
	for i, a := range attachments {
		out[i] = discord.Attachment(a)
	}
	return out
}
