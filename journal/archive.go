package journal

import (
	"sync"

	"github.com/gofrs/uuid"
)

// Archive keeps finished top-level events for later lookup, e.g. to attach a
// case's notes to its result. Once it holds capacity events, adding one
// forgets the oldest.
type Archive struct {
	mu       sync.RWMutex
	order    []uuid.UUID
	byID     map[uuid.UUID]*Event
	capacity int
}

// NewArchive creates an archive holding at most capacity events.
func NewArchive(capacity int) *Archive {
	if capacity <= 0 {
		panic("journal: archive capacity must be greater than 0")
	}
	return &Archive{
		byID:     make(map[uuid.UUID]*Event, capacity),
		capacity: capacity,
	}
}

// Add stores evt under its ID. Adding an ID again replaces the event but
// keeps its position.
func (a *Archive) Add(evt *Event) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.byID[evt.ID]; ok {
		a.byID[evt.ID] = evt
		return
	}
	if len(a.order) == a.capacity {
		delete(a.byID, a.order[0])
		// Shift in place; the backing array is reused.
		copy(a.order, a.order[1:])
		a.order = a.order[:len(a.order)-1]
	}
	a.order = append(a.order, evt.ID)
	a.byID[evt.ID] = evt
}

// Get returns the event with id if it is still kept.
func (a *Archive) Get(id uuid.UUID) (*Event, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	evt, ok := a.byID[id]
	return evt, ok
}

// Last returns up to n of the most recently added events, oldest first.
func (a *Archive) Last(n int) []*Event {
	a.mu.RLock()
	defer a.mu.RUnlock()

	ids := a.order[max(0, len(a.order)-n):]
	out := make([]*Event, len(ids))
	for i, id := range ids {
		out[i] = a.byID[id]
	}
	return out
}

// Len returns the number of kept events.
func (a *Archive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.order)
}
