// Package resilience provides the rate limiter and circuit breaker guarding
// calls to the external model server.
package resilience

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// ErrRateLimited is returned by non-blocking calls when no token is
// available.
var ErrRateLimited = errors.New("rate limited")

// Limiter is a token-bucket rate limiter.
type Limiter struct {
	rl *rate.Limiter
}

// NewLimiter creates a limiter allowing perSecond calls with the given
// burst capacity.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{rl: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow reports whether a call may proceed now (non-blocking).
func (l *Limiter) Allow() bool { return l.rl.Allow() }

// Wait blocks until a token is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error { return l.rl.Wait(ctx) }

// Call executes f if a token is available, otherwise returns ErrRateLimited.
func (l *Limiter) Call(ctx context.Context, f func(context.Context) error) error {
	if !l.Allow() {
		return ErrRateLimited
	}
	return f(ctx)
}
