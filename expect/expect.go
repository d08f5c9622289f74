// Package expect provides polled, soft assertions over driver elements and
// pages. A failed assertion is reported to the TB and the caller continues,
// so one step can surface every mismatch instead of only the first.
package expect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/networkteam/staycheck/driver"
)

// TB is the part of testing.TB used by assertions and page objects.
// *testing.T and *scenario.Case both satisfy it.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
	Logf(format string, args ...any)
	Context() context.Context
}

// FailureRecorder is implemented by a TB that wants mismatches as values
// instead of formatted messages.
type FailureRecorder interface {
	RecordFailure(err error)
}

// DefaultTimeout is how long assertions poll before failing.
var DefaultTimeout = 5 * time.Second

// MismatchError reports an assertion whose expected and actual values differ.
type MismatchError struct {
	// Subject describes the element or page the assertion was made on.
	Subject   string
	Assertion string
	Expected  string
	Actual    string
	// Cause is set when the actual value could not be read.
	Cause error
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n  expected: %s\n  actual:   %q", e.Subject, e.Assertion, e.Expected, e.Actual)
	if e.Cause != nil {
		fmt.Fprintf(&b, "\n  error:    %v", e.Cause)
	}
	return b.String()
}

func (e *MismatchError) Unwrap() error { return e.Cause }

var errMismatch = errors.New("mismatch")

// Assertions creates element and page assertions reporting to one TB.
type Assertions struct {
	t       TB
	timeout time.Duration
}

// Option configures Assertions.
type Option func(*Assertions)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Assertions) {
		a.timeout = d
	}
}

// New returns assertions reporting to t.
func New(t TB, opts ...Option) *Assertions {
	a := &Assertions{t: t, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Timeout returns the polling timeout.
func (a *Assertions) Timeout() time.Duration {
	return a.timeout
}

func (a *Assertions) fail(err error) bool {
	a.t.Helper()

	if r, ok := a.t.(FailureRecorder); ok {
		r.RecordFailure(err)
		return false
	}
	a.t.Errorf("%v", err)
	return false
}

// poll reads a value until accept returns true or the timeout elapses.
func (a *Assertions) poll(subject, assertion, expected string, read func(ctx context.Context) (string, error), accept func(string) bool) error {
	ctx := a.t.Context()

	var actual string
	err := driver.Poll(ctx, a.timeout, func() error {
		v, err := read(ctx)
		if err != nil {
			return err
		}
		actual = v
		if !accept(v) {
			return errMismatch
		}
		return nil
	})
	if err == nil {
		return nil
	}

	mismatch := &MismatchError{
		Subject:   subject,
		Assertion: assertion,
		Expected:  expected,
		Actual:    actual,
	}
	if !errors.Is(err, errMismatch) {
		mismatch.Cause = err
	}
	return mismatch
}
