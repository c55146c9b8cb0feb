// Package retry provides the bounded fixed-delay retry policy shared by
// components that recover from transient failures, replacing ad hoc attempt
// counters scattered through callers.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned when every attempt has failed.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Policy is a bounded retry schedule: MaxAttempts tries with a fixed Delay
// between consecutive attempts. The first attempt runs immediately.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Observer is called before each attempt with the 1-based attempt number and
// the inter-attempt delay.
type Observer func(attempt int, delay time.Duration)

// Do runs fn under the policy until it succeeds, the context is done, or the
// attempts are exhausted. The returned error wraps the last failure.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error, observers ...Observer) error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry: invalid max attempts %d", p.MaxAttempts)
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		for _, obs := range observers {
			if obs != nil {
				obs(attempt, p.Delay)
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delay):
		}
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrExhausted, p.MaxAttempts, lastErr)
}
