// Package waits provides the primitive suspension helpers used by every
// other harness component: fixed delay, condition polling, value-change
// detection and bounded retry.
//
// Polling is constant-interval by design: UI state changes are expected to
// resolve quickly and predictably, so exponential backoff would only slow
// the run down.
package waits

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
)

// TimeoutError is raised when a wait expires. It is a typed condition so the
// runner can classify "the UI never reached the expected state" separately
// from "the action itself failed".
type TimeoutError struct {
	Op        string        // the wait that expired
	Elapsed   time.Duration // wall-clock time spent polling
	LastValue string        // last observed predicate result or read value
}

func (e *TimeoutError) Error() string {
	if e.LastValue != "" {
		return fmt.Sprintf("%s timed out after %v (last: %s)", e.Op, e.Elapsed.Round(time.Millisecond), e.LastValue)
	}
	return fmt.Sprintf("%s timed out after %v", e.Op, e.Elapsed.Round(time.Millisecond))
}

// Presence is the outcome of a visibility check. It distinguishes "confirmed
// absent" from "the check itself failed" so callers can branch on the
// difference instead of swallowing errors.
type Presence int

const (
	PresenceUnknown Presence = iota // check failed; no evidence either way
	PresenceFound
	PresenceAbsent
)

func (p Presence) String() string {
	switch p {
	case PresenceFound:
		return "found"
	case PresenceAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Delay suspends for a fixed duration, or until the context is cancelled.
// Purely pacing, never a correctness mechanism.
func Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ForCondition repeatedly evaluates pred at a constant interval until it
// returns true or the timeout elapses. A predicate error counts as a false
// result and is remembered as the last observation.
func ForCondition(ctx context.Context, timeout, poll time.Duration, pred func(context.Context) (bool, error)) error {
	start := time.Now()
	last := "false"
	for {
		ok, err := pred(ctx)
		if err != nil {
			last = fmt.Sprintf("predicate error: %v", err)
		} else if ok {
			return nil
		} else {
			last = "false"
		}

		if time.Since(start)+poll > timeout {
			return &TimeoutError{Op: "condition wait", Elapsed: time.Since(start), LastValue: last}
		}
		if err := Delay(ctx, poll); err != nil {
			return err
		}
	}
}

// ForValueChange polls read until its result differs from initial, returning
// the changed value. Used for real-time fields such as unrealized P&L that
// should tick while the page is open.
func ForValueChange(ctx context.Context, timeout, poll time.Duration, initial string, read func(context.Context) (string, error)) (string, error) {
	start := time.Now()
	last := initial
	for {
		value, err := read(ctx)
		if err == nil {
			if value != initial {
				return value, nil
			}
			last = value
		}

		if time.Since(start)+poll > timeout {
			return "", &TimeoutError{Op: "value-change wait", Elapsed: time.Since(start), LastValue: last}
		}
		if err := Delay(ctx, poll); err != nil {
			return "", err
		}
	}
}

// Retry re-invokes a fallible action up to attempts times with a fixed delay
// between attempts. Returns nil on the first success, or the last error once
// attempts are exhausted. Each failed attempt is logged at debug level.
func Retry(ctx context.Context, logger arbor.ILogger, attempts int, delay time.Duration, action func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = action(ctx)
		if lastErr == nil {
			return nil
		}
		if logger != nil {
			logger.Debug().
				Int("attempt", attempt).
				Int("attempts", attempts).
				Err(lastErr).
				Msg("Retry attempt failed")
		}
		if attempt < attempts {
			if err := Delay(ctx, delay); err != nil {
				return err
			}
		}
	}
	return lastErr
}

// ForLoadingGone waits for a loading indicator to disappear. Best-effort:
// "indicator never existed" and "lookup failed" are treated the same as
// "indicator disappeared", because not every screen shows one.
func ForLoadingGone(ctx context.Context, timeout, poll time.Duration, visible func(context.Context) Presence) error {
	start := time.Now()
	for {
		if visible(ctx) != PresenceFound {
			return nil
		}
		if time.Since(start)+poll > timeout {
			return &TimeoutError{Op: "loading-indicator wait", Elapsed: time.Since(start), LastValue: "visible"}
		}
		if err := Delay(ctx, poll); err != nil {
			return err
		}
	}
}
