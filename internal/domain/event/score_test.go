package event

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

func TestPuzzleUnlock(t *testing.T) {
	unlock, err := PuzzleUnlock(2023, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC), unlock)

	// Days 26 to 31 hold no puzzles but remain valid instants for the
	// late-December standings announcements.
	unlock, err = PuzzleUnlock(2023, 31)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 31, 5, 0, 0, 0, time.UTC), unlock)

	for _, day := range []int{0, -1, 32} {
		_, err := PuzzleUnlock(2023, day)
		require.Error(t, err, "day %d", day)
		assert.ErrorIs(t, err, shared.ErrConversion)
	}
}

func TestEvent_Score(t *testing.T) {
	unlock := time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		completed time.Time
		want      *big.Rat
	}{
		{"at the unlock instant", unlock, big.NewRat(1, 1)},
		{"just under a day later", unlock.Add(24*time.Hour - time.Second), big.NewRat(1, 1)},
		{"one full day later", unlock.Add(24 * time.Hour), big.NewRat(1, 2)},
		{"two full days later", unlock.Add(48 * time.Hour), big.NewRat(1, 3)},
		{"on christmas morning", time.Date(2023, 12, 25, 5, 0, 0, 0, time.UTC), big.NewRat(1, 25)},

		// Early completions are not clamped; the reciprocal just leaves
		// the (0, 1] range.
		{"shortly before unlock", unlock.Add(-time.Hour), big.NewRat(1, 1)},
		{"two days before unlock", unlock.Add(-48 * time.Hour), big.NewRat(-1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Event{
				Timestamp: tt.completed,
				Year:      2023, Day: 1, Star: 1,
				ID: Identifier{Name: "Alice", Numeric: 1},
			}
			score, err := ev.Score()
			require.NoError(t, err)
			assert.Zero(t, score.Cmp(tt.want), "got %s, want %s", score.RatString(), tt.want.RatString())
		})
	}
}

func TestEvent_Score_UndefinedOneDayBefore(t *testing.T) {
	unlock := time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC)
	ev := Event{
		Timestamp: unlock.Add(-24 * time.Hour),
		Year:      2023, Day: 1, Star: 1,
		ID: Identifier{Name: "Alice", Numeric: 1},
	}

	_, err := ev.Score()
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrConversion)
}

func TestEvent_Score_InvalidDay(t *testing.T) {
	ev := Event{
		Timestamp: time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC),
		Year:      2023, Day: 0, Star: 1,
		ID: Identifier{Name: "Alice", Numeric: 1},
	}

	_, err := ev.Score()
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrConversion)
}
