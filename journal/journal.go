// Package journal records what happens during a test run as a tree of
// events: cases contain steps, steps contain failures and notes.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

type ctxKey string

const groupIDKey ctxKey = "groupID"

// Journal collects grouped events. Only top-level events are archived and
// published to subscribers, once they are complete.
type Journal struct {
	archive     *Archive
	openGroups  map[uuid.UUID]*Event
	broadcaster *Broadcaster[Event]

	mx sync.RWMutex
}

// Options configures a Journal.
type Options struct {
	// BroadcasterOptions configure delivery to subscribers.
	// Default: nil, will use DefaultBroadcasterOptions()
	BroadcasterOptions *BroadcasterOptions
}

// New creates a journal keeping the last capacity top-level events.
func New(capacity int) *Journal {
	return NewWithOptions(capacity, Options{})
}

// NewWithOptions creates a journal with the given options.
func NewWithOptions(capacity int, options Options) *Journal {
	broadcasterOptions := DefaultBroadcasterOptions()
	if options.BroadcasterOptions != nil {
		broadcasterOptions = *options.BroadcasterOptions
	}

	return &Journal{
		archive:     NewArchive(capacity),
		openGroups:  make(map[uuid.UUID]*Event),
		broadcaster: NewBroadcasterWithOptions[Event](broadcasterOptions),
	}
}

// GroupIDFromContext returns the id of the innermost open event in ctx.
func GroupIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if groupID, ok := ctx.Value(groupIDKey).(uuid.UUID); ok {
		return groupID, true
	}
	return uuid.Nil, false
}

func withGroupID(ctx context.Context, groupID uuid.UUID) context.Context {
	return context.WithValue(ctx, groupIDKey, groupID)
}

// Record adds a finished leaf event below the innermost open event of ctx.
// Without an open event it becomes a top-level event.
func (j *Journal) Record(ctx context.Context, kind Kind, name string, data any) {
	now := time.Now()
	evt := &Event{
		ID:    uuid.Must(uuid.NewV7()),
		Kind:  kind,
		Name:  name,
		Data:  data,
		Start: now,
		End:   now,
	}

	j.mx.Lock()
	defer j.mx.Unlock()

	if groupID, ok := GroupIDFromContext(ctx); ok {
		evt.GroupID = &groupID
		if outer := j.openGroups[groupID]; outer != nil {
			outer.Children = append(outer.Children, evt)
			return
		}
	}

	j.publish(evt)
}

// Begin opens a grouping event and returns a context under which further
// events are attached as its children. Every Begin needs a matching Finish.
func (j *Journal) Begin(ctx context.Context, kind Kind, name string) context.Context {
	evt := &Event{
		ID:    uuid.Must(uuid.NewV7()),
		Kind:  kind,
		Name:  name,
		Start: time.Now(),
	}

	j.mx.Lock()
	defer j.mx.Unlock()

	if groupID, ok := GroupIDFromContext(ctx); ok {
		evt.GroupID = &groupID
	}
	j.openGroups[evt.ID] = evt

	return withGroupID(ctx, evt.ID)
}

// Finish closes the innermost event opened with Begin and attaches data.
func (j *Journal) Finish(ctx context.Context, data any) {
	groupID, ok := GroupIDFromContext(ctx)
	if !ok {
		return
	}

	j.mx.Lock()
	defer j.mx.Unlock()

	evt := j.openGroups[groupID]
	if evt == nil {
		return
	}
	delete(j.openGroups, groupID)

	evt.Data = data
	evt.End = time.Now()

	if evt.GroupID != nil {
		if outer := j.openGroups[*evt.GroupID]; outer != nil {
			outer.Children = append(outer.Children, evt)
			return
		}
	}

	j.publish(evt)
}

func (j *Journal) publish(evt *Event) {
	j.archive.Add(evt)
	j.broadcaster.Publish(*evt)
}

// Events returns up to n of the most recent top-level events, oldest first.
func (j *Journal) Events(n int) []*Event {
	return j.archive.Last(n)
}

// Lookup returns a finished top-level event by id, as long as it is still
// archived. The id of a group is available from the context Begin returned.
func (j *Journal) Lookup(id uuid.UUID) (*Event, bool) {
	return j.archive.Get(id)
}

// Subscribe returns a channel receiving completed top-level events.
func (j *Journal) Subscribe(ctx context.Context) <-chan Event {
	return j.broadcaster.Subscribe(ctx)
}

// Close stops delivery to subscribers and closes their channels. Events
// finished afterwards are still archived.
func (j *Journal) Close() {
	j.broadcaster.Close()
}
