package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrNetwork wraps failures reaching a remote backend: refused
// connections, resets and timeouts. Only these are retried.
var ErrNetwork = errors.New("backend unreachable")

// transientError marks an error as worth another attempt.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Classify turns network failures from a Redis or Mongo client into
// retryable [ErrNetwork] errors. Other errors, such as a WRONGTYPE reply,
// are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return err
}

// Backoff is a retry schedule for talking to remote backends.
type Backoff struct {
	Attempts int           // total tries, including the first
	Delay    time.Duration // wait after the first failure, doubled after each retry
}

// DefaultBackoff gives a backend that is still starting about three
// seconds to answer.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Retry calls fn until it succeeds, returns an error not marked
// [Retryable], or runs out of attempts. Cancelling ctx ends the wait and
// returns ctx.Err().
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for i := 0; i < max(1, b.Attempts); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

// RetryWithBackoff retries fn on the [DefaultBackoff] schedule.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
