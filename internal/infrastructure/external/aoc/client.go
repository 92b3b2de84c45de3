// Package aoc implements the Advent of Code private leaderboard client.
// This package handles all communication with adventofcode.com, fetching
// the per-year leaderboard JSON and mapping it into domain events.
package aoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/festive-hub/festive-bot/internal/domain/event"
	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// defaultUserAgent identifies the bot to the upstream operator, as asked of
// automated leaderboard consumers.
const defaultUserAgent = "festive-bot (+https://github.com/festive-hub/festive-bot)"

// ClientConfig contains configuration for the leaderboard client.
type ClientConfig struct {
	// BaseURL is the Advent of Code base URL
	BaseURL string

	// Leaderboard is the private leaderboard identifier
	Leaderboard string

	// Session is the session cookie value used for authentication
	Session string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// UserAgent is sent with every request
	UserAgent string

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(leaderboard, session string) ClientConfig {
	return ClientConfig{
		BaseURL:     "https://adventofcode.com",
		Leaderboard: leaderboard,
		Session:     session,
		Timeout:     30 * time.Second,
		UserAgent:   defaultUserAgent,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Advent of Code private leaderboard API client.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
	mapper     *Mapper
}

// NewClient creates a new leaderboard client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: config.Logger,
		mapper: NewMapper(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// FetchEvents downloads the leaderboard for one puzzle year and flattens it
// into chronologically sorted completion events. The same request served for
// a year with no activity yields an empty slice, not an error.
func (c *Client) FetchEvents(ctx context.Context, year int) ([]event.Event, error) {
	leaderboard, err := c.fetchLeaderboard(ctx, year)
	if err != nil {
		return nil, err
	}

	return c.mapper.EventsFromDTO(leaderboard, year)
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP REQUEST HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// fetchLeaderboard performs the authenticated GET for one year's JSON view.
func (c *Client) fetchLeaderboard(ctx context.Context, year int) (*LeaderboardDTO, error) {
	fullURL := fmt.Sprintf("%s/%d/leaderboard/private/view/%s.json",
		c.config.BaseURL, year, url.PathEscape(c.config.Leaderboard))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, shared.WrapError("feed", "Fetch", shared.ErrHTTP, "create request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.AddCookie(&http.Cookie{Name: "session", Value: c.config.Session})

	if c.config.Debug {
		c.logger.Debug("leaderboard request",
			"year", year,
			"leaderboard", c.config.Leaderboard)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.WrapError("feed", "Fetch", shared.ErrHTTP, "http request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, shared.WrapError("feed", "Fetch", shared.ErrHTTP, "read response", err)
	}

	// The upstream answers 500, not 401, when the session cookie is stale.
	if resp.StatusCode == http.StatusInternalServerError {
		return nil, shared.ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return nil, shared.NewError("feed", "Fetch", shared.ErrHTTP,
			fmt.Sprintf("leaderboard request returned status %d", resp.StatusCode))
	}

	var leaderboard LeaderboardDTO
	if err := json.Unmarshal(respBody, &leaderboard); err != nil {
		return nil, shared.WrapError("feed", "Parse", shared.ErrParse, "decode leaderboard", err)
	}

	return &leaderboard, nil
}
