package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/noteandcode/sitelinks"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// Default retry settings for an extraction pass.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 1 * time.Second
)

// RetryPolicy bounds how often a failing operation is reattempted.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 mean a single attempt.
	MaxAttempts int

	// Delay is the pause before the first retry.
	Delay time.Duration

	// Multiplier scales Delay after every retry. Values <= 1 keep it constant.
	Multiplier float64

	// Retryable reports whether an error may be retried.
	// Nil uses IsRetryable.
	Retryable func(error) bool

	// OnRetry, if set, is called before each pause with the failed
	// attempt number (starting at 1) and its error.
	OnRetry func(attempt int, err error)
}

// DefaultRetryPolicy returns the policy used for extraction passes:
// 3 attempts, 1s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		Delay:       DefaultRetryDelay,
	}
}

// Delays returns the pause before each retry, in order.
func (p RetryPolicy) Delays() []time.Duration {
	n := p.attempts() - 1
	delays := make([]time.Duration, 0, n)
	delay := p.Delay
	for i := 0; i < n; i++ {
		delays = append(delays, delay)
		if p.Multiplier > 1 {
			delay = time.Duration(float64(delay) * p.Multiplier)
		}
	}
	return delays
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. It returns the last error from fn, or the context
// error if ctx is done while waiting between attempts.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	delays := p.Delays()

	var lastErr error
	for attempt := 0; attempt < p.attempts(); attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !p.retryable(err) || attempt >= len(delays) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsRetryable(err)
}

// IsRetryable reports whether err is a transient extraction failure.
// Cancellation and EFETCH errors are final.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return sitelinks.ErrorCode(err) != sitelinks.EFETCH
}
