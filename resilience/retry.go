package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Policy configures how a failed read is retried.
type Policy struct {
	// MaxAttempts is the maximum number of attempts, including the first.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between retries.
	MaxBackoff time.Duration
	// Factor is the multiplier for exponential backoff.
	Factor float64
	// Jitter adds randomness to backoff (0.0 to 1.0).
	Jitter float64
	// RetryIf reports whether an error is worth another attempt.
	RetryIf func(error) bool
	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy returns the query retry defaults: three attempts with a
// delay that doubles from one second up to thirty.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Factor:         2.0,
		RetryIf:        DefaultRetryIf,
	}
}

// NoRetry is a policy with a single attempt.
func NoRetry() Policy {
	return Policy{MaxAttempts: 1}
}

// DefaultRetryIf retries all errors except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = time.Second
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 30 * time.Second
	}
	if p.Factor <= 0 {
		p.Factor = 2.0
	}
	if p.RetryIf == nil {
		p.RetryIf = DefaultRetryIf
	}
	return p
}

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// attempts are used up. The last error is returned unwrapped.
func Retry[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	p = p.normalized()

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !p.RetryIf(err) || attempt == p.MaxAttempts {
			break
		}

		wait := p.Backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// Backoff returns the delay after the given failed attempt.
func (p Policy) Backoff(attempt int) time.Duration {
	p = p.normalized()
	d := float64(p.InitialBackoff) * math.Pow(p.Factor, float64(attempt-1))

	if p.Jitter > 0 {
		spread := d * p.Jitter
		d += (rand.Float64()*2 - 1) * spread
	}
	if d > float64(p.MaxBackoff) {
		d = float64(p.MaxBackoff)
	}
	if d < 0 {
		d = float64(p.InitialBackoff)
	}
	return time.Duration(d)
}
