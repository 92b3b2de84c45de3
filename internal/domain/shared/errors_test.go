package shared

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFestiveError_Error(t *testing.T) {
	err := NewError("config", "Validate", ErrConfigMissing, "FESTIVE_BOT_LEADERBOARD is required")
	assert.Equal(t, "config.Validate: FESTIVE_BOT_LEADERBOARD is required", err.Error())
}

func TestFestiveError_ErrorWithCause(t *testing.T) {
	err := WrapError("feed", "Fetch", ErrParse, "decoding leaderboard payload", io.ErrUnexpectedEOF)
	assert.Equal(t, "feed.Fetch: decoding leaderboard payload: unexpected EOF", err.Error())
}

func TestFestiveError_Unwrap(t *testing.T) {
	bare := NewError("event", "Score", ErrConversion, "negative day count")
	assert.Equal(t, ErrConversion, errors.Unwrap(bare))

	wrapped := WrapError("checkpoint", "Read", ErrFilesystem, "opening timestamp file", io.EOF)
	assert.Equal(t, io.EOF, errors.Unwrap(wrapped))
}

func TestFestiveError_Is(t *testing.T) {
	err := WrapError("webhook", "Send", ErrHTTP, "posting message", io.ErrClosedPipe)

	assert.ErrorIs(t, err, ErrHTTP)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.NotErrorIs(t, err, ErrParse)
	assert.NotErrorIs(t, err, ErrConfigMissing)
}

func TestFestiveError_IsMatchesRewrappedKind(t *testing.T) {
	inner := NewError("feed", "Fetch", ErrHTTP, "unexpected status")
	outer := WrapError("sync", "processYear", ErrHTTP, "fetching events for 2023", inner)

	assert.ErrorIs(t, outer, ErrHTTP)
	assert.ErrorIs(t, outer, inner)
}

func TestErrSessionExpired(t *testing.T) {
	require.Error(t, ErrSessionExpired)
	assert.ErrorIs(t, ErrSessionExpired, ErrHTTP)
	assert.Contains(t, ErrSessionExpired.Error(), "session cookie")
}
