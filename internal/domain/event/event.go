// Package event contains the domain model for puzzle-completion events:
// one star earned by one participant on one Advent of Code puzzle day.
// Events are immutable facts parsed from the leaderboard feed; their total
// order defines the chronological delivery order of notifications.
package event

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IDENTIFIER
// ══════════════════════════════════════════════════════════════════════════════

// Identifier uniquely identifies a participant on a leaderboard. Equality
// and ordering use the (Name, Numeric) pair so distinct accounts sharing a
// display name never collide. Identifier is a valid map key and is used as
// the aggregation key for scoring.
type Identifier struct {
	Name    string
	Numeric uint64
}

// AnonymousName synthesizes the display name for an account whose upstream
// name is unset.
func AnonymousName(numeric uint64) string {
	return fmt.Sprintf("anonymous user #%d", numeric)
}

// Less orders identifiers by name, then numeric ID.
func (id Identifier) Less(other Identifier) bool {
	if id.Name != other.Name {
		return id.Name < other.Name
	}
	return id.Numeric < other.Numeric
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT
// ══════════════════════════════════════════════════════════════════════════════

// Event is one recorded star completion. Year and Day name the puzzle, not
// the calendar components of Timestamp: a star for day 1 may be earned in
// March. Star is 1 or 2. For a single participant the star-2 event of a day
// never precedes its star-1 event; that is an upstream guarantee and
// violations are tolerated as data, not rejected.
type Event struct {
	Timestamp time.Time
	Year      int
	Day       int
	Star      int
	ID        Identifier
}

// Less defines the total order events are delivered in: by timestamp first,
// with the remaining fields breaking ties deterministically.
func (e Event) Less(other Event) bool {
	if !e.Timestamp.Equal(other.Timestamp) {
		return e.Timestamp.Before(other.Timestamp)
	}
	if e.Year != other.Year {
		return e.Year < other.Year
	}
	if e.Day != other.Day {
		return e.Day < other.Day
	}
	if e.Star != other.Star {
		return e.Star < other.Star
	}
	return e.ID.Less(other.ID)
}

// Sort sorts events ascending by the Event total order. Every downstream
// consumer (checkpoint replay, chronological delivery) depends on this
// ordering.
func Sort(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Less(events[j])
	})
}

// Describe renders the notification line announcing this event, with the
// score shown as an exact rational. A star outside {1, 2} is reported as a
// Parse error, surfacing bad upstream data at announcement time.
func (e Event) Describe() (string, error) {
	var part, stars string
	switch e.Star {
	case 1:
		part, stars = "one", "⭐"
	case 2:
		part, stars = "two", "⭐ ⭐"
	default:
		return "", shared.NewError("event", "Describe", shared.ErrParse,
			fmt.Sprintf("star %d is not part of a puzzle", e.Star))
	}

	score, err := e.Score()
	if err != nil {
		return "", err
	}
	plural := "s"
	if score.Cmp(big.NewRat(1, 1)) == 0 {
		plural = ""
	}

	return fmt.Sprintf("🎄 [%d] %s has completed puzzle %02d, part %s, scoring %s point%s! %s",
		e.Year, e.ID.Name, e.Day, part, score.RatString(), plural, stars), nil
}
