// Package events distributes item and evaluation events to subscribers such
// as the web UI.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// UIEvent represents an event forwarded between the CLI and the web UI
type UIEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Common event types
const (
	EventTypeItemPropertyChanged = "item_property_changed"
	EventTypeItemsEvaluated      = "items_evaluated"
	EventTypeItemsLoaded         = "items_loaded"
	EventTypeRunnerFault         = "runner_fault"
	EventTypeFileChanged         = "file_changed"
	EventTypeError               = "error"
)

// EventBus manages event distribution between CLI and Web UI
type EventBus struct {
	subscribers map[string]chan UIEvent
	mutex       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string]chan UIEvent),
	}
}

// Subscribe adds a new subscriber to the event bus
func (eb *EventBus) Subscribe(name string) <-chan UIEvent {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if old, exists := eb.subscribers[name]; exists {
		close(old)
	}
	ch := make(chan UIEvent, 100) // Buffered channel
	eb.subscribers[name] = ch
	return ch
}

// Unsubscribe removes a subscriber from the event bus
func (eb *EventBus) Unsubscribe(name string) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	if ch, exists := eb.subscribers[name]; exists {
		delete(eb.subscribers, name)
		close(ch)
	}
}

// Publish broadcasts an event to all subscribers
func (eb *EventBus) Publish(eventType string, data any) {
	event := UIEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	// Sends happen under the read lock so Unsubscribe cannot close a channel
	// mid-send; full channels are skipped.
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Helper functions for creating specific event types

// ItemPropertyChangedEvent describes one item property change.
func ItemPropertyChangedEvent(itemID string, value any, property string, oldValue, newValue any) map[string]any {
	return map[string]any{
		"item_id":   itemID,
		"value":     value,
		"property":  property,
		"old_value": oldValue,
		"new_value": newValue,
	}
}

// ItemsEvaluatedEvent summarizes an evaluator pass.
func ItemsEvaluatedEvent(kind string, items, changed, faults int, duration time.Duration) map[string]any {
	return map[string]any{
		"kind":        kind,
		"items":       items,
		"changed":     changed,
		"faults":      faults,
		"duration_ms": duration.Milliseconds(),
	}
}

// ItemsLoadedEvent reports a collection (re)loaded from source.
func ItemsLoadedEvent(source string, count int) map[string]any {
	return map[string]any{
		"source": source,
		"count":  count,
	}
}

// FileChangedEvent creates a file changed event
func FileChangedEvent(filePath, action string) map[string]any {
	return map[string]any{
		"file_path": filePath,
		"action":    action, // "created", "modified", "deleted"
	}
}

// ErrorEvent creates an error event
func ErrorEvent(message string, err error) map[string]any {
	return map[string]any{
		"message": message,
		"error":   err.Error(),
	}
}
