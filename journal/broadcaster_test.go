package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/staycheck/journal"
)

func TestBroadcaster_Publish(t *testing.T) {
	t.Parallel()

	b := journal.NewBroadcaster[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := b.Subscribe(ctx)
	require.NotNil(t, ch)

	b.Publish("case finished")

	select {
	case msg := <-ch:
		assert.Equal(t, "case finished", msg)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for value")
	}
}

func TestBroadcaster_MultipleSubscribers(t *testing.T) {
	t.Parallel()

	b := journal.NewBroadcaster[int]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subs := make([]<-chan int, 5)
	for i := range subs {
		subs[i] = b.Subscribe(ctx)
	}

	b.Publish(42)

	for i, ch := range subs {
		select {
		case v := <-ch:
			assert.Equal(t, 42, v, "subscriber %d", i)
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}

func TestBroadcaster_UnsubscribeOnContextCancel(t *testing.T) {
	t.Parallel()

	b := journal.NewBroadcaster[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)

	cancel()

	// The channel is closed once the subscription is removed
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel was not closed after context cancel")
	}
}

func TestBroadcaster_Close(t *testing.T) {
	t.Parallel()

	b := journal.NewBroadcaster[string]()

	ch := b.Subscribe(context.Background())
	b.Close()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel was not closed after Close")
	}

	// Publishing and subscribing after close are harmless
	b.Publish("ignored")
	_, ok := <-b.Subscribe(context.Background())
	assert.False(t, ok)

	// Close is idempotent
	b.Close()
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()

	b := journal.NewBroadcasterWithOptions[int](journal.BroadcasterOptions{
		SubscriberBufferSize: 1,
		QueueSize:            10,
	})
	defer b.Close()

	_ = b.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
