package resilience

import (
	"context"
	"errors"
	"testing"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("call %d should fit within the burst", i)
		}
	}
	if l.Allow() {
		t.Error("fourth immediate call should be denied at 1/s")
	}
}

func TestLimiter_CallRejectsWhenExhausted(t *testing.T) {
	l := NewLimiter(0.001, 1)
	ran := 0
	f := func(context.Context) error { ran++; return nil }

	if err := l.Call(context.Background(), f); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := l.Call(context.Background(), f); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if ran != 1 {
		t.Errorf("f ran %d times, want 1", ran)
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow() // drain the single token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("Wait on cancelled context must fail")
	}
}

func TestNewLimiter_MinimumBurst(t *testing.T) {
	l := NewLimiter(10, 0)
	if !l.Allow() {
		t.Error("burst must default to at least 1")
	}
}
