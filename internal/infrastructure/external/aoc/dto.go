// Package aoc implements the Advent of Code private leaderboard client.
// This package handles all communication with adventofcode.com, fetching
// the per-year leaderboard JSON and mapping it into domain events.
package aoc

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD DTOs
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardDTO represents one private leaderboard year as returned by the
// API. Only the fields the bot consumes are declared; everything else in the
// payload (stars, local_score, last_star_ts, ...) is ignored on decode.
// Required fields are pointers so the mapper can tell a missing field from a
// zero value.
type LeaderboardDTO struct {
	// Event is the puzzle year, as a string (e.g. "2023")
	Event *string `json:"event"`

	// Members maps numeric account IDs, serialized as strings, to their
	// completion records
	Members map[string]MemberDTO `json:"members"`
}

// MemberDTO represents one participant's completion record.
type MemberDTO struct {
	// Name is the display name; null for accounts that opted out
	Name *string `json:"name"`

	// CompletionDayLevel maps puzzle day to star index to the completion,
	// both keys serialized as strings
	CompletionDayLevel map[string]map[string]StarDTO `json:"completion_day_level"`
}

// StarDTO represents one earned star.
type StarDTO struct {
	// GetStarTS is the completion instant as Unix seconds
	GetStarTS *int64 `json:"get_star_ts"`
}
