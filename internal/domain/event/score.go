package event

import (
	"fmt"
	"math/big"
	"time"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
	"github.com/festive-hub/festive-bot/pkg/timeutil"
)

// Advent of Code calendar constants.
const (
	// FirstYear is the first year the event ran.
	FirstYear = 2015

	// UnlockHour is the UTC hour at which puzzles unlock each December day.
	UnlockHour = 5

	// FirstPuzzleDay and LastPuzzleDay bound the December days that hold
	// puzzles. Days 26 to 31 hold none, but their unlock instants remain
	// valid and carry the daily standings announcements through the end of
	// December.
	FirstPuzzleDay = 1
	LastPuzzleDay  = 25

	lastDecemberDay = 31
)

// PuzzleUnlock returns the unlock instant for the given year and December
// day: 05:00 UTC. Days outside December yield a Conversion error, mirroring
// invalid calendar construction.
func PuzzleUnlock(year, day int) (time.Time, error) {
	if day < FirstPuzzleDay || day > lastDecemberDay {
		return time.Time{}, shared.NewError("event", "PuzzleUnlock", shared.ErrConversion,
			fmt.Sprintf("December %d does not exist", day))
	}
	return time.Date(year, time.December, day, UnlockHour, 0, 0, 0, time.UTC), nil
}

// Score computes the custom score for this event: the reciprocal of one
// plus the number of full days between the puzzle unlock and the
// completion. A same-day completion scores a whole point; every further day
// shrinks the reward.
//
// Completions recorded before the unlock instant are not clamped: the day
// count may be negative, which yields a score above one or below zero. The
// only rejected case is a day count of exactly minus one, whose reciprocal
// does not exist.
func (e Event) Score() (*big.Rat, error) {
	unlock, err := PuzzleUnlock(e.Year, e.Day)
	if err != nil {
		return nil, err
	}
	days := timeutil.FullDays(unlock, e.Timestamp)
	if days == -1 {
		return nil, shared.NewError("event", "Score", shared.ErrConversion,
			"completion one day before unlock has no defined score")
	}
	return big.NewRat(1, int64(1+days)), nil
}
