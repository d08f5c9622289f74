package journal

import (
	"context"
	"sync"
)

// Broadcaster fans published values out to all current subscribers.
// Delivery is best effort: a slow subscriber misses values instead of
// blocking the publisher.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers map[<-chan T]chan T
	bufferSize  int
	queue       chan T
	closeOnce   sync.Once
	closed      bool
	done        chan struct{}
}

// BroadcasterOptions configures a Broadcaster.
type BroadcasterOptions struct {
	// SubscriberBufferSize is the channel buffer handed to each subscriber.
	SubscriberBufferSize int
	// QueueSize is the buffer between Publish and the fan-out goroutine.
	QueueSize int
}

// DefaultBroadcasterOptions returns the options used by NewBroadcaster.
func DefaultBroadcasterOptions() BroadcasterOptions {
	return BroadcasterOptions{
		SubscriberBufferSize: 100,
		QueueSize:            1000,
	}
}

// NewBroadcaster creates a Broadcaster with default options.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return NewBroadcasterWithOptions[T](DefaultBroadcasterOptions())
}

// NewBroadcasterWithOptions creates a Broadcaster and starts its fan-out goroutine.
func NewBroadcasterWithOptions[T any](options BroadcasterOptions) *Broadcaster[T] {
	b := &Broadcaster[T]{
		subscribers: make(map[<-chan T]chan T),
		bufferSize:  options.SubscriberBufferSize,
		queue:       make(chan T, options.QueueSize),
		done:        make(chan struct{}),
	}

	go b.fanOut()

	return b
}

// Subscribe returns a channel receiving published values until ctx is done
// or the broadcaster is closed.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) <-chan T {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		ch := make(chan T)
		close(ch)
		return ch
	}
	ch := make(chan T, b.bufferSize)
	b.subscribers[ch] = ch
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			b.Unsubscribe(ch)
		case <-b.done:
		}
	}()

	return ch
}

// Unsubscribe removes and closes a subscription.
func (b *Broadcaster[T]) Unsubscribe(ch <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(sub)
	}
}

// Publish queues v for delivery. It never blocks; values are dropped when
// the queue is full or the broadcaster is closed.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	select {
	case b.queue <- v:
	default:
	}
}

// Close stops delivery and closes every subscriber channel.
func (b *Broadcaster[T]) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.queue)
		b.mu.Unlock()

		<-b.done
	})
}

func (b *Broadcaster[T]) fanOut() {
	defer func() {
		b.mu.Lock()
		for _, ch := range b.subscribers {
			close(ch)
		}
		b.subscribers = nil
		b.mu.Unlock()
		close(b.done)
	}()

	for v := range b.queue {
		// Sends don't block, so holding the read lock keeps Unsubscribe from
		// closing a channel mid-send.
		b.mu.RLock()
		for _, ch := range b.subscribers {
			select {
			case ch <- v:
			default:
			}
		}
		b.mu.RUnlock()
	}
}
