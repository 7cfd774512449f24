package core

import (
	"fmt"
	"sync"
)

// Recorder is a listener that queues dispatched events so a test can walk through them in
// order.
type Recorder struct {
	t TestReporter

	mu    sync.Mutex
	queue []RecordedEvent
}

// NewRecorder creates a recorder reporting mismatches to t.
func NewRecorder(t TestReporter) *Recorder {
	return &Recorder{t: t}
}

// ExpectNext takes the oldest recorded event and checks it against the event name, method
// and arguments. Arguments may be Matchers. Expectations are ordered: a mismatch fails the
// test rather than waiting for a later event.
func (r *Recorder) ExpectNext(name, method string, args ...any) *MethodCallEvent {
	r.t.Helper()

	r.mu.Lock()

	if len(r.queue) == 0 {
		r.mu.Unlock()
		r.t.Fatalf("expected %s of %q, but no events were recorded", name, method)

		return nil
	}

	next := r.queue[0]
	r.queue = r.queue[1:]
	r.mu.Unlock()

	call, err := next.validate(name, method, args)
	if err != nil {
		r.t.Fatalf("ordered mode fail-fast: %v", err)

		return nil
	}

	return call
}

// Len returns the number of queued events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.queue)
}

// Listen subscribes the recorder to both method call events of d.
func (r *Recorder) Listen(d *EventDispatcher) {
	d.AddListener(EventBeforeMethodCall, r.Record, 0)
	d.AddListener(EventAfterMethodCall, r.Record, 0)
}

// Names returns the names of the queued events, oldest first.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.queue))
	for i, recorded := range r.queue {
		names[i] = recorded.Name
	}

	return names
}

// Record queues an event. It is a Listener.
func (r *Recorder) Record(name string, event any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queue = append(r.queue, RecordedEvent{Name: name, Event: event})
}

// RecordedEvent is one dispatched event.
type RecordedEvent struct {
	Name  string
	Event any
}

func (e RecordedEvent) validate(name, method string, args []any) (*MethodCallEvent, error) {
	if e.Name != name {
		//nolint:err113 // validation error with dynamic context
		return nil, fmt.Errorf("expected event %q, got %q", name, e.Name)
	}

	call, ok := e.Event.(*MethodCallEvent)
	if !ok {
		//nolint:err113 // validation error with dynamic context
		return nil, fmt.Errorf("event %q: expected a method call event, got %T", name, e.Event)
	}

	if call.Method != method {
		//nolint:err113 // validation error with dynamic context
		return nil, fmt.Errorf("event %q: expected method %q, got %q", name, method, call.Method)
	}

	if len(call.Arguments) != len(args) {
		//nolint:err113 // validation error with dynamic context
		return nil, fmt.Errorf("event %q: expected %d args, got %d", name, len(args), len(call.Arguments))
	}

	for i, expected := range args {
		if ok, msg := MatchValue(call.Arguments[i], expected); !ok {
			//nolint:err113 // validation error with dynamic context
			return nil, fmt.Errorf("event %q: arg %d: %s", name, i, msg)
		}
	}

	return call, nil
}
