package events

import "sync"

// Handler receives errors published on the bus.
type Handler func(err error)

// Bus fans out client errors to registered observers.
//
// Every failure surfaced by the session, dispatcher or control layers is
// published here in addition to being returned to the caller, so
// embedders can watch one stream instead of wrapping every call site.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]Handler),
	}
}

// SubscribeErrors registers a handler for error events.
//
// The returned cancel function removes the subscription. Cancelling
// twice is harmless.
func (b *Bus) SubscribeErrors(h Handler) (cancel func()) {
	if h == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// PublishError delivers err to every subscriber. A nil error is ignored.
//
// Handlers run on the publishing goroutine, outside the bus lock, so a
// handler may subscribe or cancel without deadlocking.
func (b *Bus) PublishError(err error) {
	if err == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(err)
	}
}

// SubscriberCount reports how many handlers are registered.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
