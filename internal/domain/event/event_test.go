package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

func TestIdentifier_Less(t *testing.T) {
	assert.True(t, Identifier{Name: "Alice", Numeric: 2}.Less(Identifier{Name: "Bob", Numeric: 1}))
	assert.False(t, Identifier{Name: "Bob", Numeric: 1}.Less(Identifier{Name: "Alice", Numeric: 2}))

	// Equal names fall back to the numeric ID, so two accounts sharing a
	// display name still order deterministically.
	assert.True(t, Identifier{Name: "Alice", Numeric: 1}.Less(Identifier{Name: "Alice", Numeric: 2}))
	assert.False(t, Identifier{Name: "Alice", Numeric: 2}.Less(Identifier{Name: "Alice", Numeric: 1}))
	assert.False(t, Identifier{Name: "Alice", Numeric: 1}.Less(Identifier{Name: "Alice", Numeric: 1}))
}

func TestAnonymousName(t *testing.T) {
	assert.Equal(t, "anonymous user #424242", AnonymousName(424242))
}

func TestSort(t *testing.T) {
	base := time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC)
	alice := Identifier{Name: "Alice", Numeric: 1}
	bob := Identifier{Name: "Bob", Numeric: 2}

	events := []Event{
		{Timestamp: base.Add(time.Hour), Year: 2023, Day: 1, Star: 1, ID: bob},
		{Timestamp: base, Year: 2023, Day: 2, Star: 1, ID: alice},
		{Timestamp: base, Year: 2023, Day: 1, Star: 2, ID: alice},
		{Timestamp: base, Year: 2023, Day: 1, Star: 1, ID: bob},
		{Timestamp: base, Year: 2023, Day: 1, Star: 1, ID: alice},
		{Timestamp: base, Year: 2022, Day: 1, Star: 1, ID: alice},
	}
	Sort(events)

	// Timestamp first, then year, day, star, and identifier.
	want := []Event{
		{Timestamp: base, Year: 2022, Day: 1, Star: 1, ID: alice},
		{Timestamp: base, Year: 2023, Day: 1, Star: 1, ID: alice},
		{Timestamp: base, Year: 2023, Day: 1, Star: 1, ID: bob},
		{Timestamp: base, Year: 2023, Day: 1, Star: 2, ID: alice},
		{Timestamp: base, Year: 2023, Day: 2, Star: 1, ID: alice},
		{Timestamp: base.Add(time.Hour), Year: 2023, Day: 1, Star: 1, ID: bob},
	}
	assert.Equal(t, want, events)
}

func TestEvent_Describe(t *testing.T) {
	unlock := time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			name: "whole point in the singular",
			event: Event{
				Timestamp: unlock,
				Year:      2023, Day: 1, Star: 1,
				ID: Identifier{Name: "Alice", Numeric: 1},
			},
			want: "🎄 [2023] Alice has completed puzzle 01, part one, scoring 1 point! ⭐",
		},
		{
			name: "fractional score in the plural",
			event: Event{
				Timestamp: unlock.Add(24 * time.Hour),
				Year:      2023, Day: 1, Star: 1,
				ID: Identifier{Name: "Bob", Numeric: 2},
			},
			want: "🎄 [2023] Bob has completed puzzle 01, part one, scoring 1/2 points! ⭐",
		},
		{
			name: "second star",
			event: Event{
				Timestamp: unlock.Add(48 * time.Hour),
				Year:      2023, Day: 1, Star: 2,
				ID: Identifier{Name: "Alice", Numeric: 1},
			},
			want: "🎄 [2023] Alice has completed puzzle 01, part two, scoring 1/3 points! ⭐ ⭐",
		},
		{
			name: "double digit day",
			event: Event{
				Timestamp: time.Date(2023, 12, 14, 5, 0, 0, 0, time.UTC),
				Year:      2023, Day: 14, Star: 1,
				ID: Identifier{Name: "anonymous user #99999", Numeric: 99999},
			},
			want: "🎄 [2023] anonymous user #99999 has completed puzzle 14, part one, scoring 1 point! ⭐",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.event.Describe()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvent_Describe_InvalidStar(t *testing.T) {
	ev := Event{
		Timestamp: time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC),
		Year:      2023, Day: 1, Star: 3,
		ID: Identifier{Name: "Alice", Numeric: 1},
	}

	_, err := ev.Describe()
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrParse)
}
