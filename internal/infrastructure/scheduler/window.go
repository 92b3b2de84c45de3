package scheduler

import (
	"context"
	"time"

	"github.com/festive-hub/festive-bot/pkg/timeutil"
)

// Window is the half-open interval (Prev, Current] between two consecutive
// scheduled wakeups. It is the sole unit of "did X happen" testing: an
// instant triggers work in the iteration whose window contains it.
type Window struct {
	Prev    time.Time
	Current time.Time
}

// Align truncates t down to the nearest period boundary since the Unix
// epoch. The loop seeds its first window from an aligned instant so that
// coverage is complete regardless of when the process started.
func Align(t time.Time, period time.Duration) time.Time {
	return timeutil.TruncateEpoch(t, period)
}

// Next returns the window following prev: (prev, prev+period].
func Next(prev time.Time, period time.Duration) Window {
	return Window{Prev: prev, Current: prev.Add(period)}
}

// Triggered reports whether ts falls inside the window. An instant exactly
// on the lower bound belongs to the previous window; one exactly on the
// upper bound belongs to this window.
func (w Window) Triggered(ts time.Time) bool {
	return ts.After(w.Prev) && !ts.After(w.Current)
}

// WaitUntil blocks on the clock until the window's end is reached. When the
// end has already passed (the previous iteration overran), it returns
// immediately with overran set; the window is still processed in full, so a
// late iteration shortens the sleep to zero rather than skipping work.
func WaitUntil(ctx context.Context, clock Clock, w Window) (overran bool, err error) {
	d := w.Current.Sub(clock.Now())
	if d <= 0 {
		return true, nil
	}
	return false, clock.Sleep(ctx, d)
}
