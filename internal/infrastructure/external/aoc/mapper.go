// Package aoc implements the Advent of Code private leaderboard client.
package aoc

import (
	"fmt"
	"strconv"
	"time"

	"github.com/festive-hub/festive-bot/internal/domain/event"
	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO to domain event transformations
// ══════════════════════════════════════════════════════════════════════════════

// Mapper handles transformation between leaderboard DTOs and domain events,
// protecting the rest of the bot from the upstream wire format.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// EventsFromDTO flattens a leaderboard payload into one event per earned
// star, sorted chronologically. The puzzle year is taken from the request,
// not the payload: a star on an old puzzle belongs to that puzzle's year no
// matter when it was earned. Accounts without a display name get a synthetic
// "anonymous user" one.
func (m *Mapper) EventsFromDTO(leaderboard *LeaderboardDTO, year int) ([]event.Event, error) {
	if leaderboard == nil {
		return nil, shared.NewError("feed", "Parse", shared.ErrParse, "cannot map nil leaderboard")
	}
	if leaderboard.Event == nil {
		return nil, shared.NewError("feed", "Parse", shared.ErrParse, "payload has no event year")
	}
	if _, err := strconv.Atoi(*leaderboard.Event); err != nil {
		return nil, shared.WrapError("feed", "Parse", shared.ErrParse,
			fmt.Sprintf("event year %q is not numeric", *leaderboard.Event), err)
	}

	var events []event.Event
	for rawID, member := range leaderboard.Members {
		numeric, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			return nil, shared.WrapError("feed", "Parse", shared.ErrParse,
				fmt.Sprintf("member id %q is not numeric", rawID), err)
		}

		name := event.AnonymousName(numeric)
		if member.Name != nil {
			name = *member.Name
		}
		id := event.Identifier{Name: name, Numeric: numeric}

		for rawDay, stars := range member.CompletionDayLevel {
			day, err := strconv.ParseUint(rawDay, 10, 8)
			if err != nil {
				return nil, shared.WrapError("feed", "Parse", shared.ErrParse,
					fmt.Sprintf("day %q is not a puzzle day", rawDay), err)
			}

			for rawStar, completion := range stars {
				star, err := strconv.ParseUint(rawStar, 10, 8)
				if err != nil {
					return nil, shared.WrapError("feed", "Parse", shared.ErrParse,
						fmt.Sprintf("star %q is not a star index", rawStar), err)
				}
				if completion.GetStarTS == nil {
					return nil, shared.NewError("feed", "Parse", shared.ErrParse,
						fmt.Sprintf("star %d/%s/%s has no completion timestamp", numeric, rawDay, rawStar))
				}

				events = append(events, event.Event{
					Timestamp: time.Unix(*completion.GetStarTS, 0).UTC(),
					Year:      year,
					Day:       int(day),
					Star:      int(star),
					ID:        id,
				})
			}
		}
	}

	event.Sort(events)
	return events, nil
}
