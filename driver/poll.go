package driver

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// PollInterval bounds the delay between two attempts of Poll.
var PollInterval = 250 * time.Millisecond

// Poll calls op until it returns nil, ctx is done or timeout elapsed.
// It returns the last error of op. Errors wrapped with Stop end polling
// immediately.
func Poll(ctx context.Context, timeout time.Duration, op func() error) error {
	if timeout <= 0 {
		err := op()
		var stop *stopError
		if errors.As(err, &stop) {
			return stop.err
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = PollInterval
	b.MaxElapsedTime = timeout

	var last error
	err := backoff.Retry(func() error {
		last = op()
		var stop *stopError
		if errors.As(last, &stop) {
			return backoff.Permanent(stop.err)
		}
		return last
	}, backoff.WithContext(b, ctx))
	if err == nil {
		return nil
	}
	if last != nil {
		var stop *stopError
		if errors.As(last, &stop) {
			return stop.err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(last, ctxErr)
		}
		return last
	}
	return err
}

type stopError struct {
	err error
}

func (e *stopError) Error() string { return e.err.Error() }
func (e *stopError) Unwrap() error { return e.err }

// Stop marks err as final so Poll returns it without retrying.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &stopError{err: err}
}
