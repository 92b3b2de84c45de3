package aoc

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festive-hub/festive-bot/internal/domain/shared"
)

func strPtr(s string) *string { return &s }

func starAt(ts int64) StarDTO { return StarDTO{GetStarTS: &ts} }

func TestLeaderboardDTO_Parsing(t *testing.T) {
	var leaderboard LeaderboardDTO
	err := json.Unmarshal([]byte(sampleLeaderboard), &leaderboard)
	require.NoError(t, err)

	require.NotNil(t, leaderboard.Event)
	assert.Equal(t, "2023", *leaderboard.Event)
	require.Len(t, leaderboard.Members, 2)

	named := leaderboard.Members["11111"]
	require.NotNil(t, named.Name)
	assert.Equal(t, "Shadow", *named.Name)
	require.Contains(t, named.CompletionDayLevel, "1")
	require.NotNil(t, named.CompletionDayLevel["1"]["1"].GetStarTS)
	assert.Equal(t, int64(1701406800), *named.CompletionDayLevel["1"]["1"].GetStarTS)
	assert.Equal(t, int64(1701579600), *named.CompletionDayLevel["1"]["2"].GetStarTS)

	anonymous := leaderboard.Members["22222"]
	assert.Nil(t, anonymous.Name)
}

func TestMapper_EventsFromDTO_YearFromRequest(t *testing.T) {
	// A 2015 star earned in 2023: the event keeps the puzzle's year.
	name := "Straggler"
	leaderboard := &LeaderboardDTO{
		Event: strPtr("2015"),
		Members: map[string]MemberDTO{
			"7": {
				Name: &name,
				CompletionDayLevel: map[string]map[string]StarDTO{
					"3": {"1": starAt(1701406800)},
				},
			},
		},
	}

	events, err := NewMapper().EventsFromDTO(leaderboard, 2015)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, 2015, events[0].Year)
	assert.Equal(t, 3, events[0].Day)
	assert.Equal(t, 1, events[0].Star)
	assert.Equal(t, time.Unix(1701406800, 0).UTC(), events[0].Timestamp)
	assert.Equal(t, time.UTC, events[0].Timestamp.Location())
}

func TestMapper_EventsFromDTO_AnonymousName(t *testing.T) {
	leaderboard := &LeaderboardDTO{
		Event: strPtr("2023"),
		Members: map[string]MemberDTO{
			"424242": {
				Name: nil,
				CompletionDayLevel: map[string]map[string]StarDTO{
					"1": {"1": starAt(1701406800)},
				},
			},
		},
	}

	events, err := NewMapper().EventsFromDTO(leaderboard, 2023)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "anonymous user #424242", events[0].ID.Name)
	assert.Equal(t, uint64(424242), events[0].ID.Numeric)
}

func TestMapper_EventsFromDTO_SortsAcrossMembers(t *testing.T) {
	early, late := "Early", "Late"
	leaderboard := &LeaderboardDTO{
		Event: strPtr("2023"),
		Members: map[string]MemberDTO{
			"2": {
				Name: &late,
				CompletionDayLevel: map[string]map[string]StarDTO{
					"1": {"1": starAt(2000)},
				},
			},
			"1": {
				Name: &early,
				CompletionDayLevel: map[string]map[string]StarDTO{
					"2": {"1": starAt(1000)},
				},
			},
		},
	}

	events, err := NewMapper().EventsFromDTO(leaderboard, 2023)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Early", events[0].ID.Name)
	assert.Equal(t, "Late", events[1].ID.Name)
}

func TestMapper_EventsFromDTO_MalformedPayloads(t *testing.T) {
	name := "Broken"

	tests := []struct {
		testName    string
		leaderboard *LeaderboardDTO
	}{
		{
			testName: "event year missing",
			leaderboard: &LeaderboardDTO{
				Members: map[string]MemberDTO{
					"1": {Name: &name},
				},
			},
		},
		{
			testName: "event year not numeric",
			leaderboard: &LeaderboardDTO{
				Event: strPtr("twenty-three"),
				Members: map[string]MemberDTO{
					"1": {Name: &name},
				},
			},
		},
		{
			testName: "member id not numeric",
			leaderboard: &LeaderboardDTO{
				Event: strPtr("2023"),
				Members: map[string]MemberDTO{
					"not-a-number": {Name: &name},
				},
			},
		},
		{
			testName: "day key not numeric",
			leaderboard: &LeaderboardDTO{
				Event: strPtr("2023"),
				Members: map[string]MemberDTO{
					"1": {
						Name: &name,
						CompletionDayLevel: map[string]map[string]StarDTO{
							"first": {"1": starAt(1000)},
						},
					},
				},
			},
		},
		{
			testName: "star key not numeric",
			leaderboard: &LeaderboardDTO{
				Event: strPtr("2023"),
				Members: map[string]MemberDTO{
					"1": {
						Name: &name,
						CompletionDayLevel: map[string]map[string]StarDTO{
							"1": {"gold": starAt(1000)},
						},
					},
				},
			},
		},
		{
			testName: "completion timestamp missing",
			leaderboard: &LeaderboardDTO{
				Event: strPtr("2023"),
				Members: map[string]MemberDTO{
					"1": {
						Name: &name,
						CompletionDayLevel: map[string]map[string]StarDTO{
							"1": {"1": {}},
						},
					},
				},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			_, err := NewMapper().EventsFromDTO(tc.leaderboard, 2023)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrParse)
		})
	}
}

func TestMapper_EventsFromDTO_NilLeaderboard(t *testing.T) {
	_, err := NewMapper().EventsFromDTO(nil, 2023)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrParse)
}
