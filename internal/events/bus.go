package events

import (
	"fmt"
)

// Bus is a synchronous event bus. Handlers run on the publishing goroutine,
// in subscription order, before Publish returns.
type Bus struct {
	listeners map[string][]*listener
}

type listener struct {
	handler func(interface{})
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]*listener),
	}
}

// Subscribe registers a handler for an event type and returns a func that
// removes it again. The event type is the Go type name, e.g.
// "selection.SelectionChangedEvent".
func (b *Bus) Subscribe(eventType string, handler func(interface{})) func() {
	l := &listener{handler: handler}
	b.listeners[eventType] = append(b.listeners[eventType], l)

	return func() {
		current := b.listeners[eventType]
		for i, existing := range current {
			if existing == l {
				b.listeners[eventType] = append(current[:i:i], current[i+1:]...)
				return
			}
		}
	}
}

// Publish sends an event to all listeners
func (b *Bus) Publish(event interface{}) {
	handlers := b.listeners[TypeOf(event)]
	if len(handlers) == 0 {
		return
	}

	// handlers may subscribe or unsubscribe while we iterate
	snapshot := make([]*listener, len(handlers))
	copy(snapshot, handlers)
	for _, l := range snapshot {
		l.handler(event)
	}
}

// TypeOf returns the event type key used by Subscribe for event
func TypeOf(event interface{}) string {
	return fmt.Sprintf("%T", event)
}
