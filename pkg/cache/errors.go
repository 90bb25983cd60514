package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable reports that the Redis server could not be reached.
// NewRedisCache wraps its connection failure with it.
var ErrUnavailable = errors.New("cache unavailable")

// RetryableError marks a Redis failure worth another attempt, such as a
// dropped connection or a network timeout.
type RetryableError struct{ Err error }

// Retryable marks err for RetryWithBackoff. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the pause before the second attempt.
var retryDelay = time.Second

// retryAttempts bounds every Redis round trip, including the PING in
// NewRedisCache.
const retryAttempts = 3

// RetryWithBackoff runs fn until it succeeds, fails with an error that is
// not Retryable, or has been tried retryAttempts times. The pause doubles
// after each failure and ctx cancels the wait.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}
