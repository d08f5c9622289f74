// Package driver defines the capability interface page objects use to
// drive a browser. Concrete adapters live in the pwdriver and cdpdriver
// subpackages; page objects never see them.
package driver

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no element matches within the timeout.
	ErrNotFound = errors.New("element not found")
	// ErrNotVisible is returned when an element exists but never became visible.
	ErrNotVisible = errors.New("element not visible")
	// ErrNotEnabled is returned when an element never became enabled.
	ErrNotEnabled = errors.New("element not enabled")
	// ErrTimeout is returned when a wait exceeded its timeout.
	ErrTimeout = errors.New("timed out")
	// ErrUnreachable is returned when a navigation did not load a page.
	ErrUnreachable = errors.New("page unreachable")
)

// Driver is the browser capability used by page objects.
type Driver interface {
	// Navigate loads path relative to the configured base URL.
	Navigate(ctx context.Context, path string) error
	// URL returns the current location.
	URL(ctx context.Context) (string, error)
	// Find returns a lazy reference to all elements matching sel.
	// Nothing is queried until an action or read is performed.
	Find(sel Selector) Element
}

// Element is a lazy, re-queried reference to zero or more elements.
// Actions operate on the first match and wait for it to be actionable.
type Element interface {
	// Describe returns a stable description of how the element is located.
	Describe() string

	Nth(index int) Element
	First() Element
	Find(sel Selector) Element

	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error

	// Text returns the text content of the first match.
	Text(ctx context.Context) (string, error)
	// Texts returns the text content of every match, in document order.
	Texts(ctx context.Context) ([]string, error)
	// Value returns the current value of the first matching form control.
	Value(ctx context.Context) (string, error)
	// Attribute returns the attribute value of the first match, or "" if unset.
	Attribute(ctx context.Context, name string) (string, error)
	// Count returns the current number of matches without waiting.
	Count(ctx context.Context) (int, error)
	Visible(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
	WaitVisible(ctx context.Context) error
}

// Session is an isolated browser context with a single page.
type Session interface {
	Driver
	// AppErrors returns uncaught application errors seen since the last call.
	AppErrors() []error
	Close() error
}

// Launcher owns a browser process and hands out isolated sessions.
type Launcher interface {
	Name() string
	NewSession(ctx context.Context) (Session, error)
	Close() error
}
