package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_FiltersByType(t *testing.T) {
	bus := NewBus()
	var storage, all atomic.Int32

	bus.Subscribe(func(_ context.Context, e Event) {
		assert.Equal(t, StorageChanged, e.Type)
		storage.Add(1)
	}, StorageChanged)
	bus.Subscribe(func(context.Context, Event) { all.Add(1) })

	ctx := context.Background()
	bus.Publish(ctx, StorageEvent(entity.StorageAreaSession, entity.StorageKeyData))
	bus.Publish(ctx, BadgeEvent(entity.IdleBadge(entity.Badge{})))
	bus.Publish(ctx, StateEvent(entity.RefreshStateError, errors.New("offline")))

	assert.Equal(t, int32(1), storage.Load())
	assert.Equal(t, int32(3), all.Load())
}

func TestBus_SetsTimestamp(t *testing.T) {
	bus := NewBus()
	var got Event
	bus.Subscribe(func(_ context.Context, e Event) { got = e })

	bus.Publish(context.Background(), StorageEvent(entity.StorageAreaSync, entity.StorageKeySettings))

	assert.False(t, got.Timestamp.IsZero())
	assert.True(t, got.HasKey(entity.StorageKeySettings))
	assert.False(t, got.HasKey(entity.StorageKeyData))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	var count atomic.Int32
	unsubscribe := bus.Subscribe(func(context.Context, Event) { count.Add(1) })

	bus.Publish(context.Background(), Event{Type: BadgeChanged})
	unsubscribe()
	unsubscribe()
	bus.Publish(context.Background(), Event{Type: BadgeChanged})

	assert.Equal(t, int32(1), count.Load())
}

func TestBus_PanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()
	var reached atomic.Bool

	bus.Subscribe(func(context.Context, Event) { panic("boom") })
	bus.Subscribe(func(context.Context, Event) { reached.Store(true) })

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), Event{Type: StateChanged})
	})
	assert.True(t, reached.Load())
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus()
	var count atomic.Int32
	bus.Subscribe(func(context.Context, Event) { count.Add(1) }, StateChanged)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				bus.Publish(context.Background(), StateEvent(entity.RefreshStateIdle, nil))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(100), count.Load())
}
