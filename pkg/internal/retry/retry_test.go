package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoStopsOnFirstSuccess(t *testing.T) {
	p := Policy{MaxAttempts: 5, Delay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoExhaustsAndWrapsLastError(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: time.Millisecond}

	boom := errors.New("boom")
	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestObserversSeeEveryAttempt(t *testing.T) {
	p := Policy{MaxAttempts: 4, Delay: time.Millisecond}

	var attempts []int
	_ = p.Do(context.Background(), func(context.Context) error {
		return errors.New("nope")
	}, func(attempt int, delay time.Duration) {
		if delay != time.Millisecond {
			t.Errorf("observer got wrong delay %v", delay)
		}
		attempts = append(attempts, attempt)
	})

	if len(attempts) != 4 || attempts[0] != 1 || attempts[3] != 4 {
		t.Fatalf("observer missed attempts: %v", attempts)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 100, Delay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(context.Context) error {
			return errors.New("nope")
		})
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Do did not honor cancellation during the delay")
	}
}

func TestDoRejectsInvalidPolicy(t *testing.T) {
	p := Policy{MaxAttempts: 0}
	if err := p.Do(context.Background(), func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected an error for zero attempts")
	}
}
