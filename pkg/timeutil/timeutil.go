// Package timeutil provides UTC time utilities for period-aligned
// scheduling. Every instant the bot reasons about (wakeups, puzzle unlocks,
// completion timestamps) lives in UTC, so all helpers normalize to UTC.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// TruncateEpoch truncates t down to the nearest multiple of step since the
// Unix epoch. time.Time.Truncate rounds relative to the zero time instead,
// which drifts from epoch alignment once step exceeds one day (weekly
// heartbeats), so the flooring is done on Unix seconds directly.
func TruncateEpoch(t time.Time, step time.Duration) time.Time {
	if step < time.Second {
		return t.UTC()
	}
	stepSecs := int64(step / time.Second)
	secs := t.Unix()
	rem := secs % stepSecs
	if rem < 0 {
		rem += stepSecs
	}
	return time.Unix(secs-rem, 0).UTC()
}

// FullDays returns the number of whole 24-hour days from one instant to
// another, truncated toward zero. Negative when to precedes from.
func FullDays(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// MinutesOf reports a duration as whole minutes, for display and
// configuration round-tripping.
func MinutesOf(d time.Duration) int {
	return int(d / time.Minute)
}
