// Package scheduler produces the period-aligned windows that drive the
// synchronization loop and answers trigger queries against them. The loop
// owns exactly one window at a time; windows are contiguous, never skipped,
// and never overlap.
package scheduler

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads and blocking waits so the loop can be
// driven deterministically in tests.
type Clock interface {
	// Now returns the current instant in UTC.
	Now() time.Time

	// Sleep blocks until d has elapsed or ctx is done, returning ctx.Err()
	// in the latter case. Non-positive durations return immediately.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the production Clock backed by runtime timers.
type SystemClock struct{}

// Now returns the current wall-clock instant in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep blocks for d, honoring context cancellation.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
