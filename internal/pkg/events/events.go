package events

import (
	"sync"

	"healthaxis/internal/domain/constant"
)

// Action values carried by a DoseEvent.
const (
	ActionTaken = "taken"
)

// DoseEvent is the acknowledgement emitted when the user confirms a dose from
// a reminder notification. Consumers receive the medicine and the daypart the
// reminder was configured for.
type DoseEvent struct {
	MedicineID string
	Daypart    constant.Daypart
	Action     string
}

// Bus is a process-local broadcast of dose events to registered observers.
// Subscribers are registered once at wiring time; Publish invokes them
// synchronously in registration order.
type Bus struct {
	mu   sync.RWMutex
	subs []func(DoseEvent)
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers an observer for dose events.
func (b *Bus) Subscribe(fn func(DoseEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish delivers the event to every registered observer.
func (b *Bus) Publish(ev DoseEvent) {
	b.mu.RLock()
	subs := make([]func(DoseEvent), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
