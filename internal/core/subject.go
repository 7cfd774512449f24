package core

// Subject is the value under test as seen by an example: construction details, plus a
// Caller to reach the instance through.
type Subject struct {
	wrapped *Wrapped
	caller  *Caller
	wrapper Wrapper
}

// BeAnInstanceOf sets the class of the subject, and its constructor arguments when given.
func (s *Subject) BeAnInstanceOf(className string, args ...any) error {
	return s.wrapped.BeAnInstanceOf(className, unwrapAll(args)...)
}

// BeConstructedThrough makes the subject be built by a named factory.
func (s *Subject) BeConstructedThrough(factory string, args ...any) error {
	return s.wrapped.BeConstructedThrough(factory, unwrapAll(args)...)
}

// BeConstructedWith sets the constructor arguments.
func (s *Subject) BeConstructedWith(args ...any) error {
	return s.wrapped.BeConstructedWith(unwrapAll(args)...)
}

// Call calls a method and wraps its result. Subject arguments are passed as the values
// they wrap.
func (s *Subject) Call(method string, args ...any) (*Subject, error) {
	result, err := s.caller.Call(method, unwrapAll(args)...)
	if err != nil {
		return nil, err
	}

	return s.wrapper.Wrap(result), nil
}

// Caller returns the Caller behind the subject.
func (s *Subject) Caller() *Caller {
	return s.caller
}

// Get reads a property and wraps it.
func (s *Subject) Get(property string) (*Subject, error) {
	value, err := s.caller.Get(property)
	if err != nil {
		return nil, err
	}

	return s.wrapper.Wrap(value), nil
}

// Set assigns a property.
func (s *Subject) Set(property string, value any) error {
	return s.caller.Set(property, unwrapOne(value))
}

// Unwrap returns the instance without instantiating it. It is nil before instantiation.
func (s *Subject) Unwrap() any {
	return s.wrapped.Instance()
}

// WrappedObject returns the instance, instantiating it if needed.
func (s *Subject) WrappedObject() (any, error) {
	return s.caller.WrappedObject()
}

// Wrapper turns values into subjects.
type Wrapper interface {
	Wrap(value any) *Subject
}

func unwrapAll(args []any) []any {
	unwrapped := make([]any, len(args))
	for i, arg := range args {
		unwrapped[i] = unwrapOne(arg)
	}

	return unwrapped
}

func unwrapOne(value any) any {
	if subject, ok := value.(*Subject); ok {
		return subject.Unwrap()
	}

	return value
}
