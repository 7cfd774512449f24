package core

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Exported errors.
var (
	ErrClassAlreadyRegistered = errors.New("class already registered")
	ErrClassNotLoaded         = errors.New("class not loaded")
	ErrNilClass               = errors.New("nil class")
)

// ClassLoader resolves classes by name, and by the type of a live instance.
type ClassLoader interface {
	Load(name string) (*Class, error)
	ClassOf(instance any) *Class
}

// ClassRegistry is a ClassLoader backed by explicitly registered classes.
type ClassRegistry struct {
	mu     sync.RWMutex
	byName map[string]*Class
	byType map[reflect.Type]*Class
}

// NewClassRegistry creates a registry holding the given classes.
func NewClassRegistry(classes ...*Class) (*ClassRegistry, error) {
	registry := newClassRegistry()

	err := registry.Register(classes...)
	if err != nil {
		return nil, err
	}

	return registry, nil
}

// ClassOf returns the registered class for the instance's type. Unregistered types get an
// ad-hoc class named after the Go type, with no constructors. A nil instance has no class.
func (r *ClassRegistry) ClassOf(instance any) *Class {
	if instance == nil {
		return nil
	}

	instanceType := reflect.TypeOf(instance)

	r.mu.RLock()
	class, ok := r.byType[instanceType]
	r.mu.RUnlock()

	if ok {
		return class
	}

	return &Class{
		Name:       typeName(instanceType),
		Type:       instanceType,
		factories:  map[string]reflect.Value{},
		constants:  map[string]any{},
		unexported: map[string]bool{},
	}
}

// Load returns the class registered under name.
func (r *ClassRegistry) Load(name string) (*Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if class, ok := r.byName[name]; ok {
		return class, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrClassNotLoaded, name)
}

// Len returns the number of registered classes.
func (r *ClassRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byName)
}

// Register adds classes. Registering a nil class, or a second class under a taken name,
// fails and leaves the registry unchanged.
func (r *ClassRegistry) Register(classes ...*Class) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}

	for index, class := range classes {
		if class == nil {
			return fmt.Errorf("%w: argument %d", ErrNilClass, index)
		}

		if _, ok := r.byName[class.Name]; ok || seen[class.Name] {
			return fmt.Errorf("%w: %q", ErrClassAlreadyRegistered, class.Name)
		}

		seen[class.Name] = true
	}

	for _, class := range classes {
		r.byName[class.Name] = class
		if _, ok := r.byType[class.Type]; !ok {
			r.byType[class.Type] = class
		}
	}

	return nil
}

// typeName names a type the way a reader would: without package or pointer decoration
// when the type is named, and as written otherwise.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

func newClassRegistry() *ClassRegistry {
	return &ClassRegistry{
		byName: map[string]*Class{},
		byType: map[reflect.Type]*Class{},
	}
}
