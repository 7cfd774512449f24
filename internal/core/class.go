package core

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"unicode"
	"unicode/utf8"
)

// ConstructorMethod is the method name that resolves to a class's registered constructor.
const ConstructorMethod = "__construct"

// Visibility values.
const (
	// Absent means the class has no such method at all.
	Absent Visibility = iota
	// Visible means the method exists and may be called on the instance.
	Visible
	// Hidden means the method exists but cannot be called from outside.
	Hidden
)

// Exported errors.
var (
	ErrArgumentMismatch = errors.New("argument mismatch")
	ErrNotAFunction     = errors.New("not a function")
)

// Class describes a constructible Go type under a name that subjects can refer to.
type Class struct {
	Name string
	Type reflect.Type

	constructor reflect.Value
	factories   map[string]reflect.Value
	constants   map[string]any
	unexported  map[string]bool
}

// NewClass describes the type of prototype under the given name. The prototype is only
// used for its type, so a typed nil pointer such as (*Account)(nil) is fine.
func NewClass(name string, prototype any, opts ...ClassOption) (*Class, error) {
	if prototype == nil {
		return nil, fmt.Errorf("class %q: prototype must be a typed value", name)
	}

	class := &Class{
		Name:       name,
		Type:       reflect.TypeOf(prototype),
		factories:  map[string]reflect.Value{},
		constants:  map[string]any{},
		unexported: map[string]bool{},
	}

	for _, opt := range opts {
		err := opt(class)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", name, err)
		}
	}

	return class, nil
}

// MustNewClass is NewClass for package-level class tables; it panics on error.
func MustNewClass(name string, prototype any, opts ...ClassOption) *Class {
	class, err := NewClass(name, prototype, opts...)
	if err != nil {
		panic(err)
	}

	return class
}

// Constant returns a class constant.
func (c *Class) Constant(name string) (any, bool) {
	value, ok := c.constants[name]

	return value, ok
}

// HasConstructor reports whether a constructor was registered.
func (c *Class) HasConstructor() bool {
	return c.constructor.IsValid()
}

// HasFactory reports whether a named constructor was registered.
func (c *Class) HasFactory(name string) bool {
	_, ok := c.factories[name]

	return ok
}

// MethodVisibility resolves a method name against the given receiver type. A nil receiver
// means the class type itself.
func (c *Class) MethodVisibility(name string, receiver reflect.Type) Visibility {
	if receiver == nil {
		receiver = c.Type
	}

	for _, candidate := range memberNames(name) {
		if _, ok := receiver.MethodByName(candidate); ok {
			return Visible
		}

		// pointer receiver methods are out of reach of a plain value
		if receiver.Kind() != reflect.Pointer && receiver.Kind() != reflect.Interface {
			if _, ok := reflect.PointerTo(receiver).MethodByName(candidate); ok {
				return Hidden
			}
		}
	}

	if c.unexported[name] {
		return Hidden
	}

	return Absent
}

func (c *Class) construct(args []any) (any, error) {
	if !c.HasConstructor() {
		return nil, fmt.Errorf("%w: %s has no constructor", ErrNotAFunction, c.Name)
	}

	return callForInstance(c.constructor, args)
}

func (c *Class) fromFactory(name string, args []any) (any, error) {
	if !c.HasFactory(name) {
		return nil, fmt.Errorf("%w: %s has no factory %q", ErrNotAFunction, c.Name, name)
	}

	return callForInstance(c.factories[name], args)
}

// zero returns a fresh zero instance. Pointer types get a pointer to a new zero value.
func (c *Class) zero() any {
	if c.Type.Kind() == reflect.Pointer {
		return reflect.New(c.Type.Elem()).Interface()
	}

	return reflect.New(c.Type).Elem().Interface()
}

// ClassOption configures a Class.
type ClassOption func(*Class) error

// WithConstant adds a class constant, read through Get with an upper-case name.
func WithConstant(name string, value any) ClassOption {
	return func(c *Class) error {
		c.constants[name] = value

		return nil
	}
}

// WithConstructor registers the function used for ConstructorMethod.
// The function returns the instance, optionally followed by an error.
func WithConstructor(fn any) ClassOption {
	return func(c *Class) error {
		value, err := funcValue(fn)
		if err != nil {
			return fmt.Errorf("constructor: %w", err)
		}

		c.constructor = value

		return nil
	}
}

// WithFactory registers a named constructor.
func WithFactory(name string, fn any) ClassOption {
	return func(c *Class) error {
		value, err := funcValue(fn)
		if err != nil {
			return fmt.Errorf("factory %q: %w", name, err)
		}

		c.factories[name] = value

		return nil
	}
}

// WithUnexported declares methods that exist on the type but are not exported.
// Calls to them are reported as not visible rather than not found.
func WithUnexported(names ...string) ClassOption {
	return func(c *Class) error {
		for _, name := range names {
			c.unexported[name] = true
		}

		return nil
	}
}

// Visibility is the outcome of looking a method up on a class.
type Visibility int

func (v Visibility) String() string {
	switch v {
	case Absent:
		return "absent"
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // reflect type constant
	errorType = reflect.TypeFor[error]()
)

func argValue(arg any, paramType reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch paramType.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(paramType), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: cannot use nil as %s", ErrArgumentMismatch, paramType)
		}
	}

	value := reflect.ValueOf(arg)

	if value.Type().AssignableTo(paramType) {
		return value, nil
	}

	if isNumeric(value.Kind()) && isNumeric(paramType.Kind()) {
		if !fitsNumeric(value, paramType) {
			return reflect.Value{}, fmt.Errorf("%w: %v does not fit in %s", ErrArgumentMismatch, arg, paramType)
		}

		return value.Convert(paramType), nil
	}

	if value.Kind() == paramType.Kind() && value.Type().ConvertibleTo(paramType) {
		return value.Convert(paramType), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: cannot use %T as %s", ErrArgumentMismatch, arg, paramType)
}

// buildArgs converts loosely typed arguments into call values for fnType.
func buildArgs(fnType reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := fnType.NumIn()

	if fnType.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf("%w: want at least %d arguments, got %d", ErrArgumentMismatch, numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrArgumentMismatch, numIn, len(args))
	}

	values := make([]reflect.Value, len(args))

	for index, arg := range args {
		paramType := paramTypeAt(fnType, index)

		value, err := argValue(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", index, err)
		}

		values[index] = value
	}

	return values, nil
}

// callForInstance calls a constructor-like function and returns its first result.
func callForInstance(fn reflect.Value, args []any) (any, error) {
	in, err := buildArgs(fn.Type(), args)
	if err != nil {
		return nil, err
	}

	out := fn.Call(in)

	_, err = collectResults(out)
	if err != nil {
		return nil, err
	}

	return out[0].Interface(), nil
}

// collectResults folds call results into a single value. A trailing error result is
// split off and returned on its own.
func collectResults(out []reflect.Value) (any, error) {
	var err error

	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			err, _ = out[n-1].Interface().(error)
		}

		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	default:
		values := make([]any, len(out))
		for i, value := range out {
			values[i] = value.Interface()
		}

		return values, err
	}
}

// fitsNumeric reports whether a numeric value converts to paramType without losing
// anything: no overflow, no sign change, no dropped fraction.
func fitsNumeric(value reflect.Value, paramType reflect.Type) bool {
	target := reflect.New(paramType).Elem()

	switch {
	case isInt(value.Kind()):
		n := value.Int()

		switch {
		case isInt(paramType.Kind()):
			return !target.OverflowInt(n)
		case isUint(paramType.Kind()):
			return n >= 0 && !target.OverflowUint(uint64(n))
		default:
			return true
		}
	case isUint(value.Kind()):
		n := value.Uint()

		switch {
		case isInt(paramType.Kind()):
			return n <= math.MaxInt64 && !target.OverflowInt(int64(n))
		case isUint(paramType.Kind()):
			return !target.OverflowUint(n)
		default:
			return true
		}
	default:
		f := value.Float()

		switch {
		case isInt(paramType.Kind()):
			// 2^63 itself is out of range, so the upper bound is exclusive
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 &&
				!target.OverflowInt(int64(f))
		case isUint(paramType.Kind()):
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !target.OverflowUint(uint64(f))
		default:
			return math.IsNaN(f) || math.IsInf(f, 0) || !target.OverflowFloat(f)
		}
	}
}

func funcValue(fn any) (reflect.Value, error) {
	value := reflect.ValueOf(fn)
	if !value.IsValid() || value.Kind() != reflect.Func || value.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: got %T", ErrNotAFunction, fn)
	}

	if value.Type().NumOut() == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s returns nothing", ErrNotAFunction, value.Type())
	}

	return value, nil
}

func isInt(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isNumeric(kind reflect.Kind) bool {
	return isInt(kind) || isUint(kind) || kind == reflect.Float32 || kind == reflect.Float64
}

func isUint(kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

// memberNames returns the names a member may be declared under: as written, and exported.
func memberNames(name string) []string {
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError || unicode.IsUpper(first) {
		return []string{name}
	}

	return []string{name, string(unicode.ToUpper(first)) + name[size:]}
}

func paramTypeAt(fnType reflect.Type, index int) reflect.Type {
	last := fnType.NumIn() - 1
	if fnType.IsVariadic() && index >= last {
		return fnType.In(last).Elem()
	}

	return fnType.In(index)
}
