package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Handler receives events published on the bus
type Handler func(event *Event)

// SubscriptionID identifies a subscription for Unsubscribe
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus is an in-process publish/subscribe hub.
// Handlers run synchronously on the emitting goroutine and must not block.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]subscription
	nextID      SubscriptionID
	log         zerolog.Logger
}

// NewBus creates an empty event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[EventType][]subscription),
		log:         log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers handler for eventType and returns its subscription id
func (b *Bus) Subscribe(eventType EventType, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			remaining := append(subs[:i:i], subs[i+1:]...)
			if len(remaining) == 0 {
				delete(b.subscribers, eventType)
			} else {
				b.subscribers[eventType] = remaining
			}
			return
		}
	}
}

// SubscriberCount returns the number of handlers registered for eventType
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}

// Emit publishes an event to every handler subscribed to its type
func (b *Bus) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subscribers[eventType]))
	copy(subs, b.subscribers[eventType])
	b.mu.RUnlock()

	for _, sub := range subs {
		b.dispatch(sub, event)
	}
}

func (b *Bus) dispatch(sub subscription, event *Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Interface("panic", r).
				Str("event_type", string(event.Type)).
				Msg("Event handler panicked")
		}
	}()
	sub.handler(event)
}
