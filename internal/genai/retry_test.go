package genai

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	initial := 100 * time.Millisecond
	maxDelay := time.Second

	if d := CalculateBackoff(0, initial, maxDelay); d != 0 {
		t.Errorf("CalculateBackoff(0) = %v, want 0", d)
	}

	// Full jitter: random in [0, min(max, initial*2^(n-1))).
	for attempt := 1; attempt <= 5; attempt++ {
		cap := time.Duration(float64(initial) * float64(int(1)<<(attempt-1)))
		if cap > maxDelay {
			cap = maxDelay
		}
		for range 20 {
			d := CalculateBackoff(attempt, initial, maxDelay)
			if d < 0 || d >= cap {
				t.Errorf("CalculateBackoff(%d) = %v, want in [0, %v)", attempt, d, cap)
			}
		}
	}
}

func TestSleepCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep() error = %v, want context.Canceled", err)
	}
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("Sleep(0) error = %v, want nil", err)
	}
}

func TestWithRetrySucceedsAfterTransientError(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	calls := 0
	err := WithRetry(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("503 service unavailable")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	permanent := errors.New("401 unauthorized")
	calls := 0
	err := WithRetry(context.Background(), cfg, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("WithRetry() error = %v, want permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent error)", calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	transient := errors.New("timeout waiting for response")
	calls := 0
	err := WithRetry(context.Background(), cfg, func() error {
		calls++
		return transient
	})
	if !errors.Is(err, transient) {
		t.Errorf("WithRetry() error = %v, want last transient error", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want %d", calls, cfg.MaxAttempts)
	}
}

func TestWithRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, DefaultRetryConfig(), func() error {
		t.Error("fn called with cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("WithRetry() error = %v, want context.Canceled", err)
	}
}
