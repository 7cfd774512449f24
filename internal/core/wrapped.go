package core

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// ErrAlreadyInstantiated is returned when construction details change after the subject was built.
var ErrAlreadyInstantiated = errors.New("subject is already instantiated")

// WrappedObject is the lifecycle state of a value under test, as the Caller sees it.
type WrappedObject interface {
	Instantiated() bool
	ClassName() string
	Instance() any
	Arguments() []any
	FactoryMethod() string
	SetInstance(instance any)
}

// Wrapped holds the class, construction arguments and live instance of a subject.
// The instance is non-nil exactly when the subject is instantiated.
type Wrapped struct {
	className     string
	instance      any
	arguments     []any
	factoryMethod string
	instantiated  bool
}

// NewWrappedObject creates an uninstantiated subject of the named class.
// An empty class name leaves the subject without a class.
func NewWrappedObject(className string, args ...any) *Wrapped {
	return &Wrapped{
		className: className,
		arguments: slices.Clone(args),
	}
}

// NewInstantiatedObject wraps an existing value. A nil value, including a nil pointer or
// map, yields an uninstantiated subject.
func NewInstantiatedObject(instance any) *Wrapped {
	w := &Wrapped{}
	w.SetInstance(instance)

	return w
}

// Arguments returns a copy of the construction arguments.
func (w *Wrapped) Arguments() []any {
	return slices.Clone(w.arguments)
}

// BeAnInstanceOf sets the class (and optionally the constructor arguments) of the subject.
func (w *Wrapped) BeAnInstanceOf(className string, args ...any) error {
	if w.instantiated {
		return fmt.Errorf("%w: cannot change class to %q", ErrAlreadyInstantiated, className)
	}

	w.className = className

	if len(args) > 0 {
		w.arguments = slices.Clone(args)
	}

	return nil
}

// BeConstructedThrough selects a named factory and its arguments.
func (w *Wrapped) BeConstructedThrough(factory string, args ...any) error {
	if w.instantiated {
		return fmt.Errorf("%w: cannot construct through %q", ErrAlreadyInstantiated, factory)
	}

	w.factoryMethod = factory
	w.arguments = slices.Clone(args)

	return nil
}

// BeConstructedWith replaces the constructor arguments.
func (w *Wrapped) BeConstructedWith(args ...any) error {
	if w.instantiated {
		return fmt.Errorf("%w: cannot change constructor arguments", ErrAlreadyInstantiated)
	}

	w.arguments = slices.Clone(args)

	return nil
}

// ClassName returns the class name, or "" when none was given.
func (w *Wrapped) ClassName() string {
	return w.className
}

// FactoryMethod returns the named constructor, or "" for the default one.
func (w *Wrapped) FactoryMethod() string {
	return w.factoryMethod
}

// Instance returns the live instance, or nil before instantiation.
func (w *Wrapped) Instance() any {
	return w.instance
}

// Instantiated reports whether the subject has a live instance.
func (w *Wrapped) Instantiated() bool {
	return w.instantiated
}

// SetInstance stores the live instance. Storing nil, or a typed nil, is a no-op.
func (w *Wrapped) SetInstance(instance any) {
	if isNil(instance) {
		return
	}

	w.instance = instance
	w.instantiated = true
}

// isNil reports whether value is nil or a nil pointer, map, slice, func, chan or interface.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	reflected := reflect.ValueOf(value)

	switch reflected.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return reflected.IsNil()
	default:
		return false
	}
}
