package core

import (
	"cmp"
	"slices"
	"sync"
)

// Event names published around method calls.
const (
	EventAfterMethodCall  = "afterMethodCall"
	EventBeforeMethodCall = "beforeMethodCall"
)

// Dispatcher publishes named events to whoever listens for them.
type Dispatcher interface {
	Dispatch(name string, event any)
}

// EventDispatcher is a synchronous Dispatcher. Listeners with a higher priority run first;
// listeners of equal priority run in the order they were added.
type EventDispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]registeredListener
	added     int
}

// NewEventDispatcher creates a dispatcher with no listeners.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{listeners: map[string][]registeredListener{}}
}

// AddListener subscribes listener to the named event.
func (d *EventDispatcher) AddListener(name string, listener Listener, priority int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.added++
	d.listeners[name] = append(d.listeners[name], registeredListener{
		listener: listener,
		priority: priority,
		order:    d.added,
	})

	slices.SortStableFunc(d.listeners[name], func(a, b registeredListener) int {
		if a.priority != b.priority {
			return cmp.Compare(b.priority, a.priority)
		}

		return cmp.Compare(a.order, b.order)
	})
}

// Dispatch calls every listener of the named event, in priority order.
// Listeners added while dispatching only see later events.
func (d *EventDispatcher) Dispatch(name string, event any) {
	d.mu.RLock()
	listeners := slices.Clone(d.listeners[name])
	d.mu.RUnlock()

	for _, registered := range listeners {
		registered.listener(name, event)
	}
}

// HasListeners reports whether anything listens for the named event.
func (d *EventDispatcher) HasListeners(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.listeners[name]) > 0
}

// RemoveListeners unsubscribes everything from the named event.
func (d *EventDispatcher) RemoveListeners(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, name)
}

// Listener handles a dispatched event.
type Listener func(name string, event any)

// MethodCallEvent describes a method call on a subject. The before and after events of a
// call carry the same subject, method and arguments; only the after event has a return value.
type MethodCallEvent struct {
	Example     *ExampleNode
	Subject     any
	Method      string
	Arguments   []any
	ReturnValue any
}

type registeredListener struct {
	listener Listener
	priority int
	order    int
}
