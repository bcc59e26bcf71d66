package events

import (
	"sync"

	"github.com/alantheprice/choices/pkg/itemvalue"
)

// Owner is an item owning context that publishes every item property change
// to a bus. It also serves as a pass observer.
type Owner struct {
	bus    *EventBus
	mu     sync.RWMutex
	locale string
}

// NewOwner returns an Owner publishing to bus with the given locale.
func NewOwner(bus *EventBus, locale string) *Owner {
	return &Owner{bus: bus, locale: locale}
}

// Locale implements itemvalue.Owner.
func (o *Owner) Locale() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.locale
}

// SetLocale changes the locale reported to items.
func (o *Owner) SetLocale(locale string) {
	o.mu.Lock()
	o.locale = locale
	o.mu.Unlock()
}

// ItemValuePropertyChanged implements itemvalue.PropertyChangeHandler.
func (o *Owner) ItemValuePropertyChanged(item *itemvalue.Item, name string, oldValue, newValue any) {
	o.bus.Publish(EventTypeItemPropertyChanged, ItemPropertyChangedEvent(item.ID(), item.Value(), name, oldValue, newValue))
}

// PassCompleted implements itemvalue.PassObserver.
func (o *Owner) PassCompleted(stats itemvalue.PassStats) {
	o.bus.Publish(EventTypeItemsEvaluated, ItemsEvaluatedEvent(string(stats.Kind), stats.Items, stats.Changed, stats.Faults, stats.Duration))
}

// RunnerFault implements itemvalue.PassObserver.
func (o *Owner) RunnerFault(item *itemvalue.Item, expression string, err error) {
	o.bus.Publish(EventTypeRunnerFault, map[string]any{
		"item_id":    item.ID(),
		"value":      item.Value(),
		"expression": expression,
		"error":      err.Error(),
	})
}
