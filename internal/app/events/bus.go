package events

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/geobadge/internal/logging"
)

// Handler is invoked for every matching event.
type Handler func(ctx context.Context, e Event)

type subscription struct {
	id      uint64
	types   map[Type]struct{} // nil means every type
	handler Handler
}

// Bus is a thread-safe in-process event bus. Handlers run synchronously
// in the publisher's goroutine; a panicking handler is logged and skipped.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
	now    func() time.Time
}

func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe registers handler for the given types, or every type when none
// is given. The returned func removes the subscription.
func (b *Bus) Subscribe(handler Handler, types ...Type) (unsubscribe func()) {
	sub := subscription{handler: handler}
	if len(types) > 0 {
		sub.types = make(map[Type]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	b.mu.Lock()
	b.nextID++
	sub.id = b.nextID
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(sub.id) })
	}
}

// Publish delivers e to every matching subscriber. The timestamp is set if zero.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = b.now().UTC()
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	logging.FromContext(ctx).Trace().
		Str("type", string(e.Type)).
		Strs("keys", e.Keys).
		Int("subscribers", len(subs)).
		Msg("publishing event")

	for _, sub := range subs {
		if sub.types != nil {
			if _, ok := sub.types[e.Type]; !ok {
				continue
			}
		}
		b.deliver(ctx, sub, e)
	}
}

func (b *Bus) deliver(ctx context.Context, sub subscription, e Event) {
	defer logging.Recover(ctx, "events."+string(e.Type))
	sub.handler(ctx, e)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}
