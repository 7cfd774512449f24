// Package impspec wraps values under test in subjects. A subject is instantiated lazily
// from a registered class, and every method call or property access on it goes through
// a Caller that reports failures as typed fractures and publishes events around calls.
//
// This is the public API entry point. Implementation lives in internal/core.
package impspec

import (
	"errors"
	"os"

	"github.com/toejough/impspec/internal/config"
	"github.com/toejough/impspec/internal/core"
	"github.com/toejough/impspec/internal/logging"
)

// Constants re-exported from internal/core.
const (
	ConstructorMethod     = core.ConstructorMethod
	EventAfterMethodCall  = core.EventAfterMethodCall
	EventBeforeMethodCall = core.EventBeforeMethodCall

	Absent  = core.Absent
	Visible = core.Visible
	Hidden  = core.Hidden

	KindClassNotFound             = core.KindClassNotFound
	KindMethodNotFound            = core.KindMethodNotFound
	KindMethodNotVisible          = core.KindMethodNotVisible
	KindNamedConstructorNotFound  = core.KindNamedConstructorNotFound
	KindPropertyNotFound          = core.KindPropertyNotFound
	KindOperationOnNonObject      = core.KindOperationOnNonObject
	KindFactoryDidNotReturnObject = core.KindFactoryDidNotReturnObject
)

// Errors re-exported from internal/core.
var (
	ErrAlreadyInstantiated       = core.ErrAlreadyInstantiated
	ErrArgumentMismatch          = core.ErrArgumentMismatch
	ErrClassAlreadyRegistered    = core.ErrClassAlreadyRegistered
	ErrClassNotFound             = core.ErrClassNotFound
	ErrClassNotLoaded            = core.ErrClassNotLoaded
	ErrFactoryDidNotReturnObject = core.ErrFactoryDidNotReturnObject
	ErrMethodNotFound            = core.ErrMethodNotFound
	ErrMethodNotVisible          = core.ErrMethodNotVisible
	ErrNamedConstructorNotFound  = core.ErrNamedConstructorNotFound
	ErrNilClass                  = core.ErrNilClass
	ErrNotAFunction              = core.ErrNotAFunction
	ErrOperationOnNonObject      = core.ErrOperationOnNonObject
	ErrPropertyNotFound          = core.ErrPropertyNotFound
)

// Types re-exported from internal/core.

// AccessInspector answers whether members of a target may be used from outside.
type AccessInspector = core.AccessInspector

// Caller performs method calls and property access on a subject.
type Caller = core.Caller

// Class describes a constructible Go type under a name.
type Class = core.Class

// ClassLoader resolves classes by name and by instance.
type ClassLoader = core.ClassLoader

// ClassOption configures a Class.
type ClassOption = core.ClassOption

// ClassRegistry is a ClassLoader backed by registered classes.
type ClassRegistry = core.ClassRegistry

// Dispatcher publishes named events.
type Dispatcher = core.Dispatcher

// EventDispatcher is the synchronous, priority-ordered Dispatcher.
type EventDispatcher = core.EventDispatcher

// Example bundles the collaborators of one example.
type Example = core.Example

// ExampleNode identifies an example.
type ExampleNode = core.ExampleNode

// ExceptionFactory builds fractures.
type ExceptionFactory = core.ExceptionFactory

// Fracture is a structured failure of an operation on a subject.
type Fracture = core.Fracture

// Kind classifies fractures.
type Kind = core.Kind

// Listener handles a dispatched event.
type Listener = core.Listener

// Matcher is the matcher shape accepted by Recorder expectations.
type Matcher = core.Matcher

// MethodCallEvent describes a method call on a subject.
type MethodCallEvent = core.MethodCallEvent

// Recorder queues dispatched events for ordered expectations.
type Recorder = core.Recorder

// Subject is a value under test.
type Subject = core.Subject

// TestReporter is the minimal interface impspec needs from test frameworks.
type TestReporter = core.TestReporter

// Visibility is the outcome of looking a method up on a class.
type Visibility = core.Visibility

// WrappedObject is the lifecycle state of a subject.
type WrappedObject = core.WrappedObject

// Functions re-exported from internal/core.

// Configure loads settings from the file at path and applies them. A missing file keeps
// the defaults.
func Configure(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}

	logging.Init(cfg.Logging(os.Stderr))

	return nil
}

// Describe creates an uninstantiated subject of the named class in t's example.
func Describe(t TestReporter, className string, args ...any) *Subject {
	return core.Describe(t, className, args...)
}

// LoadConfig reads settings from the file at path, falling back to the defaults when the
// file does not exist.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadFile(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.Default(), nil
	}

	return cfg, err
}

// NewCaller creates a Caller from explicit collaborators.
func NewCaller(
	wrapped WrappedObject,
	example *ExampleNode,
	dispatcher Dispatcher,
	exceptions ExceptionFactory,
	inspector AccessInspector,
	classes ClassLoader,
) *Caller {
	return core.NewCaller(wrapped, example, dispatcher, exceptions, inspector, classes)
}

// NewClass describes the type of prototype under the given name.
func NewClass(name string, prototype any, opts ...ClassOption) (*Class, error) {
	return core.NewClass(name, prototype, opts...)
}

// NewRecorder creates a recorder reporting mismatches to t.
func NewRecorder(t TestReporter) *Recorder {
	return core.NewRecorder(t)
}

// WithConstant adds a class constant.
func WithConstant(name string, value any) ClassOption {
	return core.WithConstant(name, value)
}

// WithConstructor registers the constructor of a class.
func WithConstructor(fn any) ClassOption {
	return core.WithConstructor(fn)
}

// WithFactory registers a named constructor of a class.
func WithFactory(name string, fn any) ClassOption {
	return core.WithFactory(name, fn)
}

// WithUnexported declares methods that exist on the type but are not exported.
func WithUnexported(names ...string) ClassOption {
	return core.WithUnexported(names...)
}
