package journal

import (
	"context"
	"slices"
	"testing"
	"time"
)

// Recorder reads values of a subscription on demand, for assertions in tests.
type Recorder[T any] struct {
	// Timeout bounds each Wait. Default: 1s
	Timeout time.Duration

	t      testing.TB
	ch     <-chan T
	cancel context.CancelFunc
	got    []T
}

// Collect subscribes right away so no value published afterwards is missed.
// The subscription ends with Stop or the test.
func Collect[T any](t testing.TB, subscribe func(context.Context) <-chan T) *Recorder[T] {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &Recorder[T]{
		Timeout: time.Second,
		t:       t,
		ch:      subscribe(ctx),
		cancel:  cancel,
	}
}

// Wait reads until n values arrived in total and returns all of them.
func (r *Recorder[T]) Wait(n int) []T {
	r.t.Helper()

	timer := time.NewTimer(r.Timeout)
	defer timer.Stop()

	for len(r.got) < n {
		select {
		case v, ok := <-r.ch:
			if !ok {
				r.t.Fatalf("subscription closed after %d of %d values", len(r.got), n)
				return nil
			}
			r.got = append(r.got, v)
		case <-timer.C:
			r.t.Fatalf("timed out waiting for %d values, got %d", n, len(r.got))
			return nil
		}
	}
	return slices.Clone(r.got)
}

// Stop ends the subscription and returns every value read or still buffered.
func (r *Recorder[T]) Stop() []T {
	r.cancel()
	for {
		select {
		case v, ok := <-r.ch:
			if !ok {
				return slices.Clone(r.got)
			}
			r.got = append(r.got, v)
		default:
			return slices.Clone(r.got)
		}
	}
}
