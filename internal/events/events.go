package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EventBookingCreated      = "booking_created"
	EventBookingApproved     = "booking_approved"
	EventBookingRejected     = "booking_rejected"
	EventBookingCompleted    = "booking_completed"
	EventBookingDeleted      = "booking_deleted"
	EventModificationCreated = "modification_created"
)

// BookingEvents lists every event type the booking service publishes.
var BookingEvents = []string{
	EventBookingCreated,
	EventBookingApproved,
	EventBookingRejected,
	EventBookingCompleted,
	EventBookingDeleted,
	EventModificationCreated,
}

// BookingEventPayload describes the minimal booking snapshot for event consumers.
type BookingEventPayload struct {
	BookingID      int64  `json:"booking_id"`
	CustomerID     int64  `json:"customer_id"`
	ProviderID     int64  `json:"provider_id"`
	Status         string `json:"status"`
	ActorID        int64  `json:"actor_id,omitempty"`
	ModificationID int64  `json:"modification_id,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	logger      *zerolog.Logger
}

// NewEventBus constructs an empty bus. Handler errors go to logger when set.
func NewEventBus(logger *zerolog.Logger) *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler), logger: logger}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeMany registers one handler for several event types.
func (b *EventBus) SubscribeMany(eventTypes []string, handler EventHandler) {
	for _, t := range eventTypes {
		b.Subscribe(t, handler)
	}
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	// Handlers run synchronously; caller decides concurrency model.
	for _, handler := range handlers {
		if err := handler(event); err != nil && b.logger != nil {
			b.logger.Warn().Err(err).Str("event_type", event.Type).Msg("event handler failed")
		}
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// LogHandler writes one structured line per event.
func LogHandler(logger *zerolog.Logger) EventHandler {
	return func(event *Event) error {
		logger.Info().
			Str("event_type", event.Type).
			RawJSON("payload", event.Payload).
			Time("at", event.CreatedAt).
			Msg("booking event")
		return nil
	}
}
