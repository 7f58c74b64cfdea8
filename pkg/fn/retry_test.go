package fn

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	result := Retry(context.Background(), DefaultRetry, func(context.Context) Result[int] {
		calls++
		return Ok(42)
	})
	v, err := result.Unwrap()
	if err != nil || v != 42 {
		t.Fatalf("got %d, %v", v, err)
	}
	if calls != 1 {
		t.Errorf("f ran %d times, want 1", calls)
	}
}

func TestRetry_RecoversAfterFailures(t *testing.T) {
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	calls := 0
	result := Retry(context.Background(), opts, func(context.Context) Result[string] {
		calls++
		if calls < 3 {
			return Errf[string]("attempt %d failed", calls)
		}
		return Ok("done")
	})
	if result.IsErr() {
		t.Fatalf("expected success on third attempt: %v", result)
	}
	if calls != 3 {
		t.Errorf("f ran %d times, want 3", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	opts := RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	boom := errors.New("boom")
	calls := 0
	result := Retry(context.Background(), opts, func(context.Context) Result[int] {
		calls++
		return Err[int](boom)
	})
	if _, err := result.Unwrap(); !errors.Is(err, boom) {
		t.Errorf("expected the last error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("f ran %d times, want 2", calls)
	}
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	opts := RetryOpts{MaxAttempts: 10, InitialWait: 50 * time.Millisecond, MaxWait: time.Second}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	result := Retry(ctx, opts, func(context.Context) Result[int] {
		calls++
		cancel()
		return Errf[int]("transient")
	})
	if _, err := result.Unwrap(); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("f ran %d times, want 1", calls)
	}
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	Retry(context.Background(), RetryOpts{}, func(context.Context) Result[int] {
		calls++
		return Ok(1)
	})
	if calls != 1 {
		t.Errorf("f ran %d times, want 1", calls)
	}
}
