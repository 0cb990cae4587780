package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
)

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	policy := NewRetryPolicy(WithMaxAttempts(3), WithBaseDelay(time.Millisecond))
	calls := 0
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	policy := NewRetryPolicy(WithMaxAttempts(3), WithBaseDelay(time.Millisecond))
	calls := 0
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return core.ErrBackendUnavailable("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestExecuteExhaustsAttempts(t *testing.T) {
	policy := NewRetryPolicy(WithMaxAttempts(3), WithBaseDelay(time.Millisecond))
	calls := 0
	cause := core.ErrBackendUnavailable("down")
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return cause
	})
	if calls != 3 {
		t.Errorf("expected exactly 3 calls, got %d", calls)
	}
	if !IsRetryExhausted(err) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("exhausted error should wrap the last attempt error")
	}
}

func TestExecuteStopsOnNonRetryable(t *testing.T) {
	policy := NewRetryPolicy(WithMaxAttempts(3), WithBaseDelay(time.Millisecond))
	calls := 0
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return core.ErrValidation("BAD", "not retryable")
	})
	if calls != 1 {
		t.Errorf("non-retryable error must not be retried, got %d calls", calls)
	}
	if IsRetryExhausted(err) {
		t.Error("should return the original error, not exhaustion")
	}
}

func TestExecuteRespectsContextCancellation(t *testing.T) {
	policy := NewRetryPolicy(WithMaxAttempts(5), WithBaseDelay(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := policy.Execute(ctx, func(ctx context.Context) error {
		calls++
		return core.ErrBackendUnavailable("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls > 2 {
		t.Errorf("cancellation should stop the loop early, got %d calls", calls)
	}
}

func TestExecuteSleepsBackoffFloor(t *testing.T) {
	// Attempts 1 and 2 each fail and back off: 20ms + 40ms before the
	// third attempt, so the whole run takes at least 60ms.
	policy := NewRetryPolicy(
		WithMaxAttempts(3),
		WithBaseDelay(20*time.Millisecond),
		WithMultiplier(2.0),
	)
	start := time.Now()
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		return core.ErrBackendUnavailable("down")
	})
	elapsed := time.Since(start)

	if !IsRetryExhausted(err) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}
	if floor := 60 * time.Millisecond; elapsed < floor {
		t.Errorf("elapsed %v is under the backoff floor %v", elapsed, floor)
	}
}

func TestCalculateDelayDoubles(t *testing.T) {
	policy := NewRetryPolicy(WithBaseDelay(time.Second), WithMultiplier(2.0))
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
	}
	for _, tt := range tests {
		if got := policy.CalculateDelay(tt.attempt); got != tt.want {
			t.Errorf("CalculateDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestCalculateDelayCapped(t *testing.T) {
	policy := NewRetryPolicy(
		WithBaseDelay(time.Second),
		WithMaxDelay(3*time.Second),
		WithMultiplier(2.0),
	)
	if got := policy.CalculateDelay(10); got != 3*time.Second {
		t.Errorf("expected cap at 3s, got %v", got)
	}
}

func TestCalculateDelayJitterStaysInBounds(t *testing.T) {
	policy := NewRetryPolicy(WithBaseDelay(time.Second), WithJitter(0.2))
	for i := 0; i < 100; i++ {
		d := policy.CalculateDelay(1)
		if d < 800*time.Millisecond || d > 1200*time.Millisecond {
			t.Fatalf("jittered delay out of bounds: %v", d)
		}
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	if p.MaxAttempts != 3 {
		t.Errorf("default attempts = %d, want 3", p.MaxAttempts)
	}
	if p.BaseDelay != time.Second {
		t.Errorf("default base delay = %v, want 1s", p.BaseDelay)
	}
	if p.JitterFactor != 0 {
		t.Errorf("default jitter = %v, want 0", p.JitterFactor)
	}
}
