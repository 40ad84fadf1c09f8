// Package notify fans reservation events out to in-process subscribers and,
// optionally, to a Kafka topic. Delivery is best-effort: publishing never
// blocks the caller, a full subscriber buffer drops the event, and late
// subscribers never see earlier events.
package notify

import (
	"sync"

	"labslot/pkg/logger"
	"labslot/pkg/model"
)

// Publisher is the engine-facing side of the bus.
type Publisher interface {
	Publish(event model.ReservationEvent)
}

// Bus distributes each published event to all current subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan model.ReservationEvent
	nextID      uint64
	buffer      int
	closed      bool
	log         *logger.Logger
}

func NewBus(buffer int, log *logger.Logger) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{
		subscribers: make(map[uint64]chan model.ReservationEvent),
		buffer:      buffer,
		log:         log,
	}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. Cancel is idempotent and closes the channel.
func (b *Bus) Subscribe() (<-chan model.ReservationEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan model.ReservationEvent, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub)
			}
		})
	}

	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking. A
// subscriber that cannot keep up loses the event.
func (b *Bus) Publish(event model.ReservationEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.log.Warn("Dropping event for slow subscriber",
				"subscriber", id,
				"action", event.Action,
			)
		}
	}
}

// Close shuts the bus down; subsequent publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}
