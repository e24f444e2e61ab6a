package events

import (
	"sync"
)

// Bus is a lightweight pub/sub broker using channels. Notification and
// persistence collaborators subscribe here; publishers never block on a
// slow consumer. Payloads lost to a full subscriber buffer are counted
// per event so operators can spot a consumer that cannot keep up.
type Bus struct {
	mu      sync.Mutex
	subs    map[Event][]chan any
	dropped map[Event]uint64
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{
		subs:    make(map[Event][]chan any),
		dropped: make(map[Event]uint64),
	}
}

// Subscribe registers a listener for an event and returns the channel and an
// unsubscribe function.
func (b *Bus) Subscribe(e Event, buffer int) (<-chan any, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan any, buffer)
	b.subs[e] = append(b.subs[e], ch)

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[e]
		for i, c := range subs {
			if c == ch {
				close(c)
				b.subs[e] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}

	return ch, unsub
}

// Publish fan-outs the payload to subscribers without blocking. A payload a
// subscriber has no room for is dropped and counted.
func (b *Bus) Publish(e Event, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[e] {
		select {
		case ch <- payload:
		default:
			b.dropped[e]++
		}
	}
}

// Dropped reports how many payloads for the event were discarded because a
// subscriber buffer was full.
func (b *Bus) Dropped(e Event) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped[e]
}
