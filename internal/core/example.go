package core

import (
	"github.com/google/uuid"

	"github.com/toejough/impspec/internal/logging"
)

// Example bundles the collaborators shared by the subjects of one example: a fresh
// dispatcher, exception factory and inspector over a class loader.
type Example struct {
	Node       *ExampleNode
	Dispatcher *EventDispatcher
	Exceptions *Exceptions
	Inspector  *ReflectionInspector
	Classes    ClassLoader
}

// NewExample creates the collaborators for one example.
// Method calls are logged at debug level through the default logger.
func NewExample(title string, classes ClassLoader) *Example {
	dispatcher := NewEventDispatcher()
	logCalls := LogMethodCalls(logging.Get())
	dispatcher.AddListener(EventBeforeMethodCall, logCalls, 0)
	dispatcher.AddListener(EventAfterMethodCall, logCalls, 0)

	return &Example{
		Node:       NewExampleNode(title),
		Dispatcher: dispatcher,
		Exceptions: NewExceptions(classes),
		Inspector:  NewReflectionInspector(classes),
		Classes:    classes,
	}
}

// Describe creates an uninstantiated subject of the named class.
func (e *Example) Describe(className string, args ...any) *Subject {
	return e.subject(NewWrappedObject(className, args...))
}

// Wrap creates a subject around an existing value. It is the Wrapper of the example's
// subjects, so call results share the example's collaborators.
func (e *Example) Wrap(value any) *Subject {
	if subject, ok := value.(*Subject); ok {
		return subject
	}

	return e.subject(NewInstantiatedObject(value))
}

func (e *Example) subject(wrapped *Wrapped) *Subject {
	caller := NewCaller(wrapped, e.Node, e.Dispatcher, e.Exceptions, e.Inspector, e.Classes)

	return &Subject{wrapped: wrapped, caller: caller, wrapper: e}
}

// ExampleNode identifies the example a method call happened in.
type ExampleNode struct {
	ID    uuid.UUID
	Title string
}

// NewExampleNode creates a node with a fresh id.
func NewExampleNode(title string) *ExampleNode {
	return &ExampleNode{ID: uuid.New(), Title: title}
}
