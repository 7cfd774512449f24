package core

import (
	"sync"
)

// TestReporter is the minimal interface impspec needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// DefaultClasses returns the process-wide class registry used by ExampleFor.
func DefaultClasses() *ClassRegistry {
	return defaultClasses
}

// Describe creates an uninstantiated subject of the named class in t's example.
func Describe(t TestReporter, className string, args ...any) *Subject {
	return ExampleFor(t).Describe(className, args...)
}

// ExampleFor returns the Example for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Example, so subjects
// created in one test share a dispatcher.
//
// If the TestReporter supports Cleanup (like *testing.T), the Example is
// automatically removed from the registry when the test completes.
func ExampleFor(t TestReporter) *Example {
	registryMu.Lock()
	defer registryMu.Unlock()

	if example, ok := registry[t]; ok {
		return example
	}

	example := NewExample(titleOf(t), defaultClasses)
	registry[t] = example

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}

	return example
}

// Register adds classes to the default class registry.
func Register(classes ...*Class) error {
	return defaultClasses.Register(classes...)
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level class table shared by every example
	defaultClasses = newClassRegistry()
	//nolint:gochecknoglobals // Package-level registry is intentional for per-test examples
	registry = make(map[TestReporter]*Example)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

type namer interface {
	Name() string
}

func titleOf(t TestReporter) string {
	if n, ok := t.(namer); ok {
		return n.Name()
	}

	return ""
}
