package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds how a caller retries a scoring backend. The zero value
// is not usable; start from DefaultRetryPolicy.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// InitialBackoff is the delay after the first failure; it doubles per
	// attempt up to MaxBackoff, with jitter.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// AttemptTimeout bounds a single attempt. Zero means no per-attempt
	// timeout beyond the caller's context.
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns the policy used when a service is constructed
// without an explicit one.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		AttemptTimeout: 10 * time.Second,
	}
}

// Validate checks the policy is usable.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return errors.New("max attempts must be at least 1")
	}
	if p.InitialBackoff < 0 || p.MaxBackoff < 0 {
		return errors.New("backoff durations cannot be negative")
	}
	return nil
}

// backoff returns the jittered delay before the given retry (0-based).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := float64(p.InitialBackoff) * math.Pow(2, float64(attempt))
	if limit := float64(p.MaxBackoff); p.MaxBackoff > 0 && d > limit {
		d = limit
	}
	// Jitter between 50% and 100% of the computed delay.
	d *= 0.5 + rand.Float64()*0.5
	return time.Duration(d)
}

// ScoreWithRetry runs the scorer under the policy: each attempt gets its own
// timeout, transient failures back off exponentially, and exhaustion maps to
// ErrScoringUnavailable. Invalid requests fail immediately.
func ScoreWithRetry(ctx context.Context, scorer Scorer, req Request, policy RetryPolicy) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := policy.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid retry policy: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if policy.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, policy.AttemptTimeout)
		}

		result, err := scorer.Score(attemptCtx, req)
		cancel()
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrInvalidRequest) {
			return Result{}, err
		}
		lastErr = err

		if attempt == policy.MaxAttempts-1 {
			break
		}

		select {
		case <-time.After(policy.backoff(attempt)):
		case <-ctx.Done():
			return Result{}, fmt.Errorf("%w: %v", ErrScoringUnavailable, ctx.Err())
		}
	}

	return Result{}, fmt.Errorf("%w: %d attempts failed, last error: %v",
		ErrScoringUnavailable, policy.MaxAttempts, lastErr)
}
