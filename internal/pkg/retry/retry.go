// Package retry implements a bounded retry policy with exponential
// backoff and jitter.
package retry

import (
	"context"
	"math/rand"
	"time"
)

type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Jitter is the fraction of the delay randomized on each attempt,
	// in [0, 1]. Zero disables jitter.
	Jitter float64
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Jitter:      0.2,
	}
}

// Do runs fn until it succeeds, the context is cancelled, or the
// attempt budget is exhausted. retryable decides whether an error is
// worth another attempt; a nil retryable retries everything.
// The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := p.BaseDelay
	if delay <= 0 {
		delay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}
		if !sleepWithContext(ctx, p.withJitter(delay)) {
			return ctx.Err()
		}
		delay = p.nextDelay(delay)
	}
	return lastErr
}

func (p Policy) nextDelay(current time.Duration) time.Duration {
	if current <= 0 {
		return time.Second
	}
	next := current * 2
	max := p.MaxDelay
	if max <= 0 {
		max = 30 * time.Second
	}
	if next > max {
		next = max
	}
	return next
}

func (p Policy) withJitter(d time.Duration) time.Duration {
	if p.Jitter <= 0 || d <= 0 {
		return d
	}
	frac := p.Jitter
	if frac > 1 {
		frac = 1
	}
	span := float64(d) * frac
	return d + time.Duration((rand.Float64()*2-1)*span)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
