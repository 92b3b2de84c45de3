// Package sync implements the bot's polling and notification engine.
//
// The engine advances through contiguous half-open windows of wall-clock
// time, one pass per window. Everything time-driven (completion delivery,
// puzzle-unlock announcements, standings reports, heartbeats) triggers off
// an instant falling inside the current window, so each trigger fires in
// exactly one pass even when an iteration overruns its schedule.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/festive-hub/festive-bot/internal/domain/event"
	"github.com/festive-hub/festive-bot/internal/domain/standings"
	"github.com/festive-hub/festive-bot/internal/infrastructure/persistence/checkpoint"
	"github.com/festive-hub/festive-bot/internal/infrastructure/scheduler"
	"github.com/festive-hub/festive-bot/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the engine.
type Config struct {
	// Leaderboard is the private leaderboard identifier
	Leaderboard string

	// AllYears reports every live year each pass instead of only the
	// current one
	AllYears bool

	// Period is the polling cadence; windows are its aligned multiples
	Period time.Duration

	// Heartbeat is the status heartbeat cadence; zero disables heartbeats
	Heartbeat time.Duration

	// Standings is the cadence of standings reports during December
	Standings time.Duration

	// Version is the bot version announced at startup
	Version string
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// Feed fetches one leaderboard year as chronologically sorted events.
type Feed interface {
	FetchEvents(ctx context.Context, year int) ([]event.Event, error)
}

// Attachment is a file sent alongside a message.
type Attachment struct {
	Name string
	Data []byte
}

// Dispatcher delivers messages to the bot's two webhook channels. Both
// methods block until the message has been accepted or is undeliverable.
type Dispatcher interface {
	// Notify carries festive content: completions, unlocks, standings.
	Notify(ctx context.Context, content string, attachments ...Attachment) error

	// Status carries operational messages: startup, heartbeats, errors.
	Status(ctx context.Context, content string, attachments ...Attachment) error
}

// ══════════════════════════════════════════════════════════════════════════════
// ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// Engine polls the leaderboard feed and turns what it finds into webhook
// notifications. A single Engine runs a single sequential loop; it is not
// safe for concurrent use.
type Engine struct {
	feed        Feed
	dispatcher  Dispatcher
	checkpoints checkpoint.Store
	clock       scheduler.Clock
	logger      *slog.Logger
	config      Config

	// live holds the years with at least one unlocked puzzle, ascending.
	live []int
}

// NewEngine creates a new engine.
func NewEngine(
	feed Feed,
	dispatcher Dispatcher,
	checkpoints checkpoint.Store,
	clock scheduler.Clock,
	logger *slog.Logger,
	config Config,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = scheduler.SystemClock{}
	}

	return &Engine{
		feed:        feed,
		dispatcher:  dispatcher,
		checkpoints: checkpoints,
		clock:       clock,
		logger:      logger,
		config:      config,
	}
}

// Run drives the engine until the context is canceled or a fatal error
// occurs; it never returns nil. Any error it returns has already aborted
// the loop, and delivery resumes from the persisted checkpoints on the next
// start.
func (e *Engine) Run(ctx context.Context) error {
	now := e.clock.Now()
	if err := e.initialise(ctx, now); err != nil {
		return err
	}

	prev := scheduler.Align(now, e.config.Period)
	for {
		w := scheduler.Next(prev, e.config.Period)

		e.logger.Info("sleeping until next wake", "wake", w.Current)
		overran, err := scheduler.WaitUntil(ctx, e.clock, w)
		if err != nil {
			return err
		}
		if overran {
			e.logger.Warn("previous pass overran, starting immediately", "wake", w.Current)
		}

		if err := e.runPass(ctx, w); err != nil {
			return err
		}

		prev = w.Current
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STARTUP
// ══════════════════════════════════════════════════════════════════════════════

// initialise announces the bot, seeds the live years from now, and reports
// the effective parameters on the status channel.
func (e *Engine) initialise(ctx context.Context, now time.Time) error {
	e.logger.Info("initialising", "version", e.config.Version)
	msg := fmt.Sprintf("🤖 Festive Bot v%s is initialising...", e.config.Version)
	if err := e.dispatcher.Status(ctx, msg); err != nil {
		return err
	}

	live, err := liveYearsAt(now)
	if err != nil {
		return err
	}
	e.live = live
	e.logger.Info("initialisation successful", "live_years", e.live)

	heartbeat := "off"
	if e.config.Heartbeat > 0 {
		heartbeat = strconv.Itoa(timeutil.MinutesOf(e.config.Heartbeat))
	}
	params := fmt.Sprintf(
		"leaderboard: %s\n"+
			"all years:   %t\n"+
			"period:      %d\n"+
			"standings:   %d\n"+
			"heartbeat:   %s\n"+
			"live years:  %v\n",
		e.config.Leaderboard,
		e.config.AllYears,
		timeutil.MinutesOf(e.config.Period),
		timeutil.MinutesOf(e.config.Standings),
		heartbeat,
		e.live,
	)

	return e.dispatcher.Status(ctx, "🤖 Initialisation successful!",
		Attachment{Name: "params.txt", Data: []byte(params)})
}

// liveYearsAt returns every year whose first puzzle has unlocked by now.
func liveYearsAt(now time.Time) ([]int, error) {
	var live []int
	for year := event.FirstYear; year <= now.Year(); year++ {
		unlock, err := event.PuzzleUnlock(year, event.FirstPuzzleDay)
		if err != nil {
			return nil, err
		}
		if !now.Before(unlock) {
			live = append(live, year)
		}
	}
	return live, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// PER-WINDOW PASS
// ══════════════════════════════════════════════════════════════════════════════

// runPass performs all the work owed to one window: the heartbeat, the
// live-year extension, and one feed poll per reported year.
func (e *Engine) runPass(ctx context.Context, w scheduler.Window) error {
	passID := uuid.NewString()
	e.logger.Info("pass started",
		"pass_id", passID,
		"window_start", w.Prev,
		"window_end", w.Current)

	if err := e.heartbeat(ctx, w); err != nil {
		return err
	}
	if err := e.extendLiveYears(ctx, w); err != nil {
		return err
	}

	year := w.Current.Year()
	for _, requestYear := range e.live {
		if !e.config.AllYears && requestYear != year {
			continue
		}
		if err := e.processYear(ctx, w, requestYear); err != nil {
			return err
		}
	}

	e.logger.Info("pass completed", "pass_id", passID)
	return nil
}

// heartbeat sends the periodic liveness message when the window contains a
// heartbeat boundary.
func (e *Engine) heartbeat(ctx context.Context, w scheduler.Window) error {
	if e.config.Heartbeat <= 0 {
		return nil
	}

	ts := scheduler.Align(w.Current, e.config.Heartbeat)
	if !w.Triggered(ts) {
		return nil
	}
	return e.dispatcher.Status(ctx, fmt.Sprintf("🤖 Heartbeat %s", ts.Format(time.RFC3339)))
}

// extendLiveYears appends the current year once its first puzzle unlocks,
// so a bot started in November picks up the new season without a restart.
func (e *Engine) extendLiveYears(ctx context.Context, w scheduler.Window) error {
	year := w.Current.Year()
	unlock, err := event.PuzzleUnlock(year, event.FirstPuzzleDay)
	if err != nil {
		return err
	}
	if !w.Triggered(unlock) || slices.Contains(e.live, year) {
		return nil
	}

	e.live = append(e.live, year)
	e.logger.Info("extending live years", "year", year)
	return e.dispatcher.Status(ctx, fmt.Sprintf("🤖 Adding %d to live years!", year))
}

// processYear polls one year's leaderboard, delivers every completion that
// is newer than the checkpoint and older than the window end, and makes the
// December announcements for the year.
func (e *Engine) processYear(ctx context.Context, w scheduler.Window, year int) error {
	events, err := e.feed.FetchEvents(ctx, year)
	if err != nil {
		return err
	}
	e.logger.Info("fetched leaderboard", "year", year, "events", len(events))

	checkpointTS := e.readCheckpoint(ctx, w, year)

	delivered := 0
	for _, ev := range events {
		// Completions at or before the checkpoint were announced by an
		// earlier pass or run; those at or after the window end belong to a
		// later window.
		if !ev.Timestamp.After(checkpointTS) || !ev.Timestamp.Before(w.Current) {
			continue
		}

		line, err := ev.Describe()
		if err != nil {
			return err
		}
		if err := e.dispatcher.Notify(ctx, line); err != nil {
			return err
		}
		// Advance after every send: a crash between two sends re-delivers
		// at most the in-flight completion, never skips one.
		if err := e.checkpoints.Advance(ctx, year, e.config.Leaderboard, ev.Timestamp); err != nil {
			return err
		}
		delivered++
	}
	if delivered > 0 {
		e.logger.Info("delivered completions", "year", year, "count", delivered)
	}

	return e.announce(ctx, w, year, events)
}

// readCheckpoint resolves the replay lower bound for one year. A missing or
// unreadable checkpoint falls back to the default horizon behind the window
// end, bounding the replay instead of failing the pass.
func (e *Engine) readCheckpoint(ctx context.Context, w scheduler.Window, year int) time.Time {
	ts, ok, err := e.checkpoints.Read(ctx, year, e.config.Leaderboard)
	if err != nil {
		e.logger.Warn("checkpoint unreadable, using default horizon",
			"year", year,
			"error", err)
		return w.Current.Add(-checkpoint.DefaultHorizon)
	}
	if !ok {
		e.logger.Info("no checkpoint yet, using default horizon", "year", year)
		return w.Current.Add(-checkpoint.DefaultHorizon)
	}
	return ts
}

// ══════════════════════════════════════════════════════════════════════════════
// DECEMBER ANNOUNCEMENTS
// ══════════════════════════════════════════════════════════════════════════════

// announce sends the December-only messages for a year: the season opener,
// daily puzzle unlocks, periodic standings, and the New Year sign-off. All
// of them apply only while the wall clock is inside that year's December.
func (e *Engine) announce(ctx context.Context, w scheduler.Window, year int, events []event.Event) error {
	if year != w.Current.Year() || w.Current.Month() != time.December {
		return nil
	}

	day := w.Current.Day()
	if day <= event.LastPuzzleDay {
		unlock, err := event.PuzzleUnlock(year, day)
		if err != nil {
			return err
		}
		if w.Triggered(unlock) {
			if day == event.FirstPuzzleDay {
				opener := fmt.Sprintf("🎄 [%d] Advent of Code is now live! 🎉", year)
				if err := e.dispatcher.Notify(ctx, opener); err != nil {
					return err
				}
			}
			msg := fmt.Sprintf("🎄 [%d] Puzzle %02d is now unlocked! 🔓", year, day)
			if err := e.dispatcher.Notify(ctx, msg); err != nil {
				return err
			}
		}
	}

	if w.Triggered(scheduler.Align(w.Current, e.config.Standings)) {
		report, err := standings.Report(events)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("standings_%d_12_%02d.txt", year, day)
		msg := fmt.Sprintf("🎄 [%d] Current Standings 🏆", year)
		if err := e.dispatcher.Notify(ctx, msg, Attachment{Name: name, Data: []byte(report)}); err != nil {
			return err
		}
	}

	// The last window of December is the one whose successor starts next
	// year.
	if w.Current.Add(e.config.Period).Year() != year {
		signOff := fmt.Sprintf("🎄 [%d] Festive Bot signing off. Happy New Year! 👋", year)
		return e.dispatcher.Notify(ctx, signOff)
	}
	return nil
}
