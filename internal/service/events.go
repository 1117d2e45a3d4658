package service

import (
	"slices"
	"sync"
	"time"
)

// EventType names something the inventory service finished doing
type EventType string

const (
	EventImportCompleted EventType = "import_completed"
	EventImportFailed    EventType = "import_failed"
	EventExportCompleted EventType = "export_completed"
)

// Event is delivered to subscribers after an import or export. Payload
// is ImportStats, the error text, or the exported entity count.
type Event struct {
	Type    EventType `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus fans events out to subscriber channels without blocking the
// publisher
type EventBus struct {
	mu   sync.RWMutex
	subs []chan<- Event
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers ch. Events are dropped for a subscriber whose
// channel is full.
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subs = append(eb.subs, ch)
}

// Unsubscribe removes ch; it is not closed
func (eb *EventBus) Unsubscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subs = slices.DeleteFunc(eb.subs, func(c chan<- Event) bool { return c == ch })
}

// Publish stamps and delivers an event. A nil bus drops it.
func (eb *EventBus) Publish(typ EventType, payload any) {
	if eb == nil {
		return
	}
	ev := Event{Type: typ, At: time.Now(), Payload: payload}

	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
