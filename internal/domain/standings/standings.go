// Package standings aggregates puzzle-completion events into ranked,
// tie-grouped leaderboard standings and renders them as a text report.
package standings

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/festive-hub/festive-bot/internal/domain/event"
)

// Placeholder is the report body used when no events have been recorded for
// a year yet.
const Placeholder = "No scores yet: get programming!\n"

// Entry pairs a participant with their aggregate score.
type Entry struct {
	ID    event.Identifier
	Score *big.Rat
}

// Group is a run of entries sharing one score and therefore one position.
type Group struct {
	Position int
	Entries  []Entry
}

// Aggregate sums the score of every event per participant. Scores stay
// exact rationals throughout; they are only rounded at display time.
func Aggregate(events []event.Event) (map[event.Identifier]*big.Rat, error) {
	totals := make(map[event.Identifier]*big.Rat)
	for _, e := range events {
		score, err := e.Score()
		if err != nil {
			return nil, err
		}
		if total, ok := totals[e.ID]; ok {
			total.Add(total, score)
		} else {
			totals[e.ID] = score
		}
	}
	return totals, nil
}

// Rank orders participants by score descending, identifier ascending on
// equal scores, and groups runs of equal scores into shared positions.
// Positions follow competition ranking: a group's position is one plus the
// number of strictly higher-scoring participants, so the group after a tie
// skips past the tied count.
func Rank(totals map[event.Identifier]*big.Rat) []Group {
	entries := make([]Entry, 0, len(totals))
	for id, score := range totals {
		entries = append(entries, Entry{ID: id, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := entries[i].Score.Cmp(entries[j].Score); c != 0 {
			return c > 0
		}
		return entries[i].ID.Less(entries[j].ID)
	})

	var groups []Group
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && entries[j].Score.Cmp(entries[i].Score) == 0 {
			j++
		}
		groups = append(groups, Group{Position: i + 1, Entries: entries[i:j]})
		i = j
	}
	return groups
}

// Format renders one line per participant. Each column is sized to its
// widest value: position right-aligned, name left-aligned, score
// right-aligned with two decimal places.
func Format(groups []Group) string {
	var posWidth, nameWidth, scoreWidth int
	for _, g := range groups {
		if w := len(strconv.Itoa(g.Position)); w > posWidth {
			posWidth = w
		}
		for _, entry := range g.Entries {
			if w := len(entry.ID.Name); w > nameWidth {
				nameWidth = w
			}
			if w := len(entry.Score.FloatString(2)); w > scoreWidth {
				scoreWidth = w
			}
		}
	}

	var report strings.Builder
	for _, g := range groups {
		for _, entry := range g.Entries {
			fmt.Fprintf(&report, "%*d) %-*s %*s\n",
				posWidth, g.Position,
				nameWidth+1, entry.ID.Name+":",
				scoreWidth, entry.Score.FloatString(2))
		}
	}
	return report.String()
}

// Report produces the standings report for a full per-year event set, or
// the placeholder when the set is empty.
func Report(events []event.Event) (string, error) {
	if len(events) == 0 {
		return Placeholder, nil
	}
	totals, err := Aggregate(events)
	if err != nil {
		return "", err
	}
	return Format(Rank(totals)), nil
}
