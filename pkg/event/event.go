// Package event is a synchronous in-process dispatcher. Services fire
// domain events after a successful commit; listeners registered at boot
// (internal/kernel) update metrics and write audit log lines.
package event

import (
	"context"
	"sync"
)

// Name identifies an event.
type Name string

const (
	OrderPlaced        Name = "order.placed"
	OrderStatusChanged Name = "order.status_changed"
)

// Handler receives an event payload. Handlers run on the firing goroutine
// and must not block.
type Handler func(ctx context.Context, payload any)

var (
	mu       sync.RWMutex
	handlers = map[Name][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(name Name, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], h)
}

// Fire dispatches payload to every listener of name, in registration
// order.
func Fire(ctx context.Context, name Name, payload any) {
	mu.RLock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	mu.RUnlock()

	for _, h := range hs {
		h(ctx, payload)
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[Name][]Handler{}
}
