package journal

import (
	"iter"
	"time"

	"github.com/gofrs/uuid"
)

// Kind classifies journal events.
type Kind string

const (
	KindCase     Kind = "case"
	KindStep     Kind = "step"
	KindFailure  Kind = "failure"
	KindAppError Kind = "app_error"
	KindNote     Kind = "note"
)

// Event is one entry of a run journal. Case events group step events, which
// in turn group failures and notes recorded while they were open.
type Event struct {
	ID      uuid.UUID
	GroupID *uuid.UUID

	Kind Kind
	Name string
	Data any

	Start time.Time
	End   time.Time

	Children []*Event
}

// Duration is the time between Start and End.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Visit walks the event and its descendants depth first.
func (e *Event) Visit() iter.Seq[*Event] {
	return func(yield func(*Event) bool) {
		e.visit(yield)
	}
}

func (e *Event) visit(yield func(*Event) bool) bool {
	if !yield(e) {
		return false
	}
	for _, child := range e.Children {
		if !child.visit(yield) {
			return false
		}
	}
	return true
}

// Count returns how many events of kind k are in the tree rooted at e.
func (e *Event) Count(k Kind) int {
	n := 0
	for evt := range e.Visit() {
		if evt.Kind == k {
			n++
		}
	}
	return n
}
