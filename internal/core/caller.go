package core

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"
)

// Caller performs method calls and property access on a subject, instantiating it on first
// use. Whatever cannot be done is reported as a Fracture built by the ExceptionFactory.
// Successful method calls are surrounded by beforeMethodCall and afterMethodCall events.
//
// A Caller serves one subject in one example and is not safe for concurrent use.
type Caller struct {
	wrapped    WrappedObject
	example    *ExampleNode
	dispatcher Dispatcher
	exceptions ExceptionFactory
	inspector  AccessInspector
	classes    ClassLoader
}

// NewCaller creates a Caller. None of the collaborators are owned by it.
func NewCaller(
	wrapped WrappedObject,
	example *ExampleNode,
	dispatcher Dispatcher,
	exceptions ExceptionFactory,
	inspector AccessInspector,
	classes ClassLoader,
) *Caller {
	return &Caller{
		wrapped:    wrapped,
		example:    example,
		dispatcher: dispatcher,
		exceptions: exceptions,
		inspector:  inspector,
		classes:    classes,
	}
}

// Call invokes a method on the subject and returns its result: nil for no results, the
// value for one, and a []any for several. A non-nil trailing error result is returned as
// the error, and no afterMethodCall event is published for it.
func (c *Caller) Call(method string, args ...any) (any, error) {
	subject, err := c.WrappedObject()
	if err != nil {
		return nil, err
	}

	if !isObject(subject) {
		return nil, c.exceptions.CallingMethodOnNonObject(method)
	}

	if !c.inspector.IsMethodCallable(subject, method) {
		return nil, c.methodNotFound(subject, method, args)
	}

	return c.invoke(subject, method, args)
}

// Get reads a property of the subject. Upper-case names resolve to class constants first.
func (c *Caller) Get(property string) (any, error) {
	if isConstantName(property) {
		if value, ok := c.constant(property); ok {
			return value, nil
		}
	}

	subject, err := c.WrappedObject()
	if err != nil {
		return nil, err
	}

	if !isObject(subject) {
		return nil, c.exceptions.GettingPropertyOnNonObject(property)
	}

	if !c.inspector.IsPropertyReadable(subject, property) {
		return nil, c.exceptions.PropertyNotFound(subject, property)
	}

	return readProperty(subject, property)
}

// Set assigns a property of the subject.
func (c *Caller) Set(property string, value any) error {
	subject, err := c.WrappedObject()
	if err != nil {
		return err
	}

	if !isObject(subject) {
		return c.exceptions.SettingPropertyOnNonObject(property)
	}

	if !c.inspector.IsPropertyWritable(subject, property) {
		return c.exceptions.PropertyNotFound(subject, property)
	}

	return writeProperty(subject, property, value)
}

// WrappedObject returns the live subject, instantiating it first if needed.
// A subject without a class name is returned as is, which may be nil.
func (c *Caller) WrappedObject() (any, error) {
	if c.wrapped.Instantiated() {
		return c.wrapped.Instance(), nil
	}

	className := c.wrapped.ClassName()
	if className == "" {
		return c.wrapped.Instance(), nil
	}

	class, err := c.classes.Load(className)
	if err != nil {
		return nil, c.exceptions.ClassNotFound(className)
	}

	instance := c.wrapped.Instance()

	if isNil(instance) {
		instance, err = c.instantiate(class)
		if err != nil {
			return nil, err
		}
	}

	c.wrapped.SetInstance(instance)

	return instance, nil
}

// classOf names the subject's class for reporting. The wrapped class name wins over the
// instance's type.
func (c *Caller) classOf(subject any) *Class {
	className := c.wrapped.ClassName()
	if className != "" {
		if class, err := c.classes.Load(className); err == nil {
			return class
		}
	}

	class := c.classes.ClassOf(subject)
	if className == "" {
		return class
	}

	renamed := *class
	renamed.Name = className

	return &renamed
}

func (c *Caller) constant(name string) (any, bool) {
	var class *Class

	if className := c.wrapped.ClassName(); className != "" {
		loaded, err := c.classes.Load(className)
		if err != nil {
			return nil, false
		}

		class = loaded
	} else if instance := c.wrapped.Instance(); instance != nil {
		class = c.classes.ClassOf(instance)
	} else {
		return nil, false
	}

	return class.Constant(name)
}

func (c *Caller) instantiate(class *Class) (any, error) {
	args := c.wrapped.Arguments()

	if factory := c.wrapped.FactoryMethod(); factory != "" {
		if !c.inspector.IsMethodCallable(class, factory) {
			return nil, c.exceptions.NamedConstructorNotFound(class.Name, factory, args)
		}

		instance, err := class.fromFactory(factory, args)
		if err != nil {
			return nil, fmt.Errorf("constructing %s through %s: %w", class.Name, factory, err)
		}

		if !isObject(instance) {
			return nil, c.exceptions.FactoryDidNotReturnObject(class.Name, factory, instance)
		}

		return instance, nil
	}

	if c.inspector.IsMethodCallable(class, ConstructorMethod) {
		instance, err := class.construct(args)
		if err != nil {
			return nil, fmt.Errorf("constructing %s: %w", class.Name, err)
		}

		if !isObject(instance) {
			return nil, c.exceptions.FactoryDidNotReturnObject(class.Name, ConstructorMethod, instance)
		}

		return instance, nil
	}

	if len(args) > 0 {
		return nil, c.exceptions.MethodNotFound(class.Name, ConstructorMethod, args)
	}

	return class.zero(), nil
}

func (c *Caller) invoke(subject any, method string, args []any) (any, error) {
	fn, ok := methodValue(subject, method)
	if !ok {
		return nil, c.methodNotFound(subject, method, args)
	}

	in, err := buildArgs(fn.Type(), args)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}

	before := &MethodCallEvent{
		Example:   c.example,
		Subject:   subject,
		Method:    method,
		Arguments: slices.Clone(args),
	}
	c.dispatcher.Dispatch(EventBeforeMethodCall, before)

	result, err := collectResults(fn.Call(in))
	if err != nil {
		return nil, err
	}

	after := *before
	after.ReturnValue = result
	c.dispatcher.Dispatch(EventAfterMethodCall, &after)

	return result, nil
}

// methodNotFound tells a missing method apart from one the class hides.
func (c *Caller) methodNotFound(subject any, method string, args []any) *Fracture {
	class := c.classOf(subject)

	if class.MethodVisibility(method, reflect.TypeOf(subject)) == Hidden {
		return c.exceptions.MethodNotVisible(class.Name, method, args)
	}

	return c.exceptions.MethodNotFound(class.Name, method, args)
}

func isConstantName(name string) bool {
	return strings.ToUpper(name) == name && strings.IndexFunc(name, unicode.IsLetter) >= 0
}

func methodValue(subject any, method string) (reflect.Value, bool) {
	value := reflect.ValueOf(subject)

	for _, candidate := range memberNames(method) {
		fn := value.MethodByName(candidate)
		if fn.IsValid() {
			return fn, true
		}
	}

	return reflect.Value{}, false
}
