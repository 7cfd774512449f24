package impspec

import "github.com/toejough/impspec/internal/core"

// ExampleFor returns the Example for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Example, so subjects
// and recorders in the same test share a dispatcher.
func ExampleFor(t TestReporter) *Example {
	return core.ExampleFor(t)
}

// Register adds classes to the registry every example resolves class names against.
func Register(classes ...*Class) error {
	return core.Register(classes...)
}
