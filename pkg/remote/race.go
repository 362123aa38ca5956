// Package remote performs deadline-bounded calls to the upstream engines.
package remote

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds every upstream call unless configured otherwise.
const DefaultTimeout = 5000 * time.Millisecond

// ErrTimeout is returned when the deadline fires before the call settles.
var ErrTimeout = errors.New("request timeout")

type outcome[T any] struct {
	value T
	err   error
}

// Race runs fn and returns its result or ErrTimeout, whichever comes first.
// The losing call is not awaited; its context is cancelled once Race returns.
func Race[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// buffered so the loser can always deliver and exit
	done := make(chan outcome[T], 1)

	go func() {
		value, err := fn(callCtx)
		done <- outcome[T]{value: value, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var zero T

	select {
	case result := <-done:
		return result.value, result.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
