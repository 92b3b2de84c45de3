package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateEpoch(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		step time.Duration
		want time.Time
	}{
		{
			name: "hour step floors to the hour",
			t:    time.Date(2023, 12, 3, 5, 47, 33, 0, time.UTC),
			step: time.Hour,
			want: time.Date(2023, 12, 3, 5, 0, 0, 0, time.UTC),
		},
		{
			name: "exact boundary is unchanged",
			t:    time.Date(2023, 12, 3, 5, 0, 0, 0, time.UTC),
			step: time.Hour,
			want: time.Date(2023, 12, 3, 5, 0, 0, 0, time.UTC),
		},
		{
			name: "ninety minute step",
			t:    time.Date(2023, 12, 3, 5, 47, 33, 0, time.UTC),
			step: 90 * time.Minute,
			want: time.Date(2023, 12, 3, 4, 30, 0, 0, time.UTC),
		},
		{
			// The epoch fell on a Thursday, so weekly boundaries are
			// Thursdays at midnight. time.Time.Truncate would anchor on the
			// zero time and land elsewhere.
			name: "weekly step anchors on the epoch",
			t:    time.Date(2023, 12, 3, 5, 47, 33, 0, time.UTC),
			step: 7 * 24 * time.Hour,
			want: time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "pre-epoch instants floor downward",
			t:    time.Date(1969, 12, 31, 23, 59, 59, 0, time.UTC),
			step: time.Hour,
			want: time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC),
		},
		{
			name: "zero step returns the instant",
			t:    time.Date(2023, 12, 3, 5, 47, 33, 0, time.UTC),
			step: 0,
			want: time.Date(2023, 12, 3, 5, 47, 33, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateEpoch(tt.t, tt.step)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestTruncateEpoch_NormalizesZone(t *testing.T) {
	// 10:47:33 at UTC+5 is 05:47:33 UTC.
	zone := time.FixedZone("UTC+5", 5*60*60)
	got := TruncateEpoch(time.Date(2023, 12, 3, 10, 47, 33, 0, zone), time.Hour)

	assert.Equal(t, time.Date(2023, 12, 3, 5, 0, 0, 0, time.UTC), got)
}

func TestFullDays(t *testing.T) {
	from := time.Date(2023, 12, 1, 5, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		to   time.Time
		want int
	}{
		{"same instant", from, 0},
		{"just under one day", from.Add(24*time.Hour - time.Second), 0},
		{"exactly one day", from.Add(24 * time.Hour), 1},
		{"just under two days", from.Add(48*time.Hour - time.Second), 1},
		{"exactly two days", from.Add(48 * time.Hour), 2},
		{"christmas morning", time.Date(2023, 12, 25, 4, 59, 0, 0, time.UTC), 23},
		{"christmas unlock", time.Date(2023, 12, 25, 5, 0, 0, 0, time.UTC), 24},
		{"just before", from.Add(-time.Second), 0},
		{"one day before", from.Add(-24 * time.Hour), -1},
		{"one day and one hour before", from.Add(-25 * time.Hour), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FullDays(from, tt.to))
		})
	}
}

func TestMinutesOf(t *testing.T) {
	assert.Equal(t, 60, MinutesOf(time.Hour))
	assert.Equal(t, 90, MinutesOf(90*time.Minute))
	assert.Equal(t, 1440, MinutesOf(24*time.Hour))
	assert.Equal(t, 0, MinutesOf(59*time.Second))
	assert.Equal(t, 0, MinutesOf(0))
}
