// Package events implements the observer registry used by runners.
package events

import (
	"io"
	"sync"

	"go.trai.ch/runq/internal/core/domain"
)

// Listener receives published events.
type Listener func(ev domain.Event)

// Bus maps event names to ordered listener lists.
type Bus struct {
	mu        sync.RWMutex
	listeners map[domain.EventName][]Listener
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[domain.EventName][]Listener)}
}

// Subscribe appends fn to the listeners of name.
func (b *Bus) Subscribe(name domain.EventName, fn Listener) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], fn)
}

// Publish calls every listener of ev.Name in subscription order.
func (b *Bus) Publish(ev domain.Event) {
	b.mu.RLock()
	listeners := b.listeners[ev.Name]
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// WriteTo returns a listener writing each chunk verbatim to w.
// It is meant for stdout and stderr subscriptions.
func WriteTo(w io.Writer) Listener {
	return func(ev domain.Event) {
		_, _ = w.Write(ev.Chunk)
	}
}
