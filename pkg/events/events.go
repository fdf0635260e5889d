// Package events provides the typed progress events the pipeline streams to
// observers, plus the event bus that distributes them.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProgressEvent is one typed progress notification for an observer. Events
// for a given artifact are emitted in strict causal order.
type ProgressEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Progress event subtypes.
const (
	EventTypeValidationStart    = "validation_start"
	EventTypeArtifactStart      = "artifact_start"
	EventTypeCompilationStart   = "compilation_start"
	EventTypeCompilationSuccess = "compilation_success"
	EventTypeCompilationFailure = "compilation_failure"
	EventTypeRetryAttempt       = "retry_attempt"
	EventTypeFixSuccess         = "fix_success"
	EventTypeFixFailure         = "fix_failure"
	EventTypeArtifactComplete   = "artifact_complete"
	EventTypeValidationComplete = "validation_complete"
	EventTypeError              = "error"
)

// NewEvent creates a progress event with a fresh ID and timestamp.
func NewEvent(eventType, message string, data map[string]any) ProgressEvent {
	return ProgressEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Message:   message,
		Data:      data,
	}
}

// Sink receives progress events. Implementations must not block: a slow
// observer cannot be allowed to stall the validation pipeline.
type Sink interface {
	Send(event ProgressEvent)
}

// NoopSink discards all events. It is the sink used when no observer is
// attached, so call sites never need nil checks.
type NoopSink struct{}

// Send discards the event.
func (NoopSink) Send(ProgressEvent) {}

// BusSink forwards events to an EventBus.
type BusSink struct {
	Bus *EventBus
}

// Send publishes the event to the bus.
func (s BusSink) Send(event ProgressEvent) {
	s.Bus.Publish(event)
}

// EventBus distributes progress events to subscribers. Publishing never
// blocks; events to a full subscriber channel are dropped.
type EventBus struct {
	subscribers map[string]chan ProgressEvent
	mutex       sync.RWMutex
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string]chan ProgressEvent),
	}
}

// Subscribe adds a new subscriber to the event bus.
func (eb *EventBus) Subscribe(name string) <-chan ProgressEvent {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	ch := make(chan ProgressEvent, 100)
	eb.subscribers[name] = ch
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (eb *EventBus) Unsubscribe(name string) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if ch, exists := eb.subscribers[name]; exists {
		delete(eb.subscribers, name)
		close(ch)
	}
}

// Publish broadcasts an event to all subscribers without blocking.
func (eb *EventBus) Publish(event ProgressEvent) {
	eb.mutex.RLock()
	subscribers := make([]chan ProgressEvent, 0, len(eb.subscribers))
	for _, ch := range eb.subscribers {
		subscribers = append(subscribers, ch)
	}
	eb.mutex.RUnlock()

	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
			// Channel is full; skip this subscriber rather than block.
		}
	}
}
