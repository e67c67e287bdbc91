package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	errs "igingest/pkg/errors"
	"igingest/pkg/logger"
)

func testConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewTestLogger(),
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, testConfig(3))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeNetwork, "connection reset")
		}
		return nil
	}, testConfig(5))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsOnTerminalError(t *testing.T) {
	calls := 0
	terminal := errs.New(errs.ErrorTypeNotFound, "profile gone")
	err := Do(func() error {
		calls++
		return terminal
	}, testConfig(5))

	if !errors.Is(err, terminal) {
		t.Fatalf("expected terminal error back, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.ErrorTypeServerError, "boom")
	}, testConfig(3))

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}

	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		t.Error("expected wrapped error to preserve classification")
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := testConfig(0)
	cfg.Context = ctx
	cfg.Backoff = &ConstantBackoff{Delay: time.Hour}

	done := make(chan error, 1)
	go func() {
		done <- Do(func() error {
			return errs.New(errs.ErrorTypeNetwork, "down")
		}, cfg)
	}()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", errs.New(errs.ErrorTypeNetwork, "x"), true},
		{"rate limit", errs.New(errs.ErrorTypeRateLimit, "x"), true},
		{"server error", errs.New(errs.ErrorTypeServerError, "x"), true},
		{"not found", errs.New(errs.ErrorTypeNotFound, "x"), false},
		{"forbidden", errs.New(errs.ErrorTypeForbidden, "x"), false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"unclassified", errors.New("mystery"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRetryIf(tt.err); got != tt.want {
				t.Errorf("DefaultRetryIf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetrierWithMaxAttempts(t *testing.T) {
	r := NewRetrier(testConfig(5)).WithMaxAttempts(2)

	calls := 0
	err := r.Do(func() error {
		calls++
		return errs.New(errs.ErrorTypeNetwork, "down")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestExponentialBackoffGrowth(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   time.Second,
		Multiplier: 2.0,
	}

	d1 := eb.NextDelay(1)
	d2 := eb.NextDelay(2)
	d3 := eb.NextDelay(3)

	if d2 <= d1 || d3 <= d2 {
		t.Errorf("expected growing delays, got %v, %v, %v", d1, d2, d3)
	}
	if d := eb.NextDelay(20); d > time.Second {
		t.Errorf("delay %v exceeds cap", d)
	}
}
