package events

import (
	"sync"
	"time"
)

// Handler processes a single event. Handlers run synchronously on the
// emitting goroutine and must not block.
type Handler func(Event)

// Bus fans events out to subscribed handlers.
// Safe for concurrent Emit and Subscribe.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	closed   bool
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit stamps the event time and delivers it to all handlers.
// No-op after Close.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	for _, h := range b.handlers {
		h(e)
	}
}

// Close stops event delivery
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
