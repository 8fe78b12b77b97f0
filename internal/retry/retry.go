// Package retry wraps blocking calls in an explicit retry policy: a predicate
// selecting retryable errors, a backoff schedule, and an optional attempt bound.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Schedule builds a fresh backoff sequence for one call
type Schedule func() backoff.BackOff

// Policy describes how a call is retried
type Policy struct {
	// Retryable reports whether err should be retried. Nil retries every error.
	Retryable func(err error) bool
	// Schedule produces the wait between attempts. Nil means no wait.
	Schedule Schedule
	// MaxTries bounds the total number of attempts. Zero means unbounded.
	MaxTries uint
	// Notify is called before each wait with the failed attempt's error
	Notify func(err error, next time.Duration)
}

// DefaultMultiplier replaces multipliers that would not grow the wait
const DefaultMultiplier = 1.5

// Exponential returns a schedule starting at initial, growing by multiplier per
// attempt, with each wait capped at max. An initial above max starts at max.
func Exponential(initial time.Duration, multiplier float64, max time.Duration) Schedule {
	if max > 0 && initial > max {
		initial = max
	}
	if multiplier <= 1 {
		multiplier = DefaultMultiplier
	}
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.Multiplier = multiplier
		b.MaxInterval = max
		// Waits never exceed max
		b.RandomizationFactor = 0
		b.Reset()
		return b
	}
}

// Constant returns a schedule that always waits d
func Constant(d time.Duration) Schedule {
	return func() backoff.BackOff {
		return backoff.NewConstantBackOff(d)
	}
}

// Do runs op until it succeeds, returns a non-retryable error, exhausts
// MaxTries, or ctx is done. The last error is returned unchanged.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	operation := func() (T, error) {
		res, err := op()
		if err != nil && p.Retryable != nil && !p.Retryable(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	var schedule backoff.BackOff = &backoff.ZeroBackOff{}
	if p.Schedule != nil {
		schedule = p.Schedule()
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(schedule),
		// Bounded only by MaxTries and ctx
		backoff.WithMaxElapsedTime(0),
	}
	if p.MaxTries > 0 {
		opts = append(opts, backoff.WithMaxTries(p.MaxTries))
	}
	if p.Notify != nil {
		opts = append(opts, backoff.WithNotify(backoff.Notify(p.Notify)))
	}

	return backoff.Retry(ctx, operation, opts...)
}
