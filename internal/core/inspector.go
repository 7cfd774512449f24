package core

import (
	"fmt"
	"reflect"
)

// AccessInspector answers whether members of a target may be used from outside.
// A *Class target stands for a class that has not been instantiated yet.
type AccessInspector interface {
	IsMethodCallable(target any, name string) bool
	IsPropertyReadable(target any, name string) bool
	IsPropertyWritable(target any, name string) bool
}

// ReflectionInspector inspects targets with reflection, consulting a ClassLoader for
// what reflection cannot see.
//
// Methods are visible when exported; see Class.MethodVisibility. Properties are exported
// struct fields, reached through pointers, or keys of maps with string keys. Struct
// fields are only writable through a pointer. Map keys are readable when present and
// writable whenever the map is non-nil.
type ReflectionInspector struct {
	classes ClassLoader
}

// NewReflectionInspector creates an inspector resolving classes through classes.
func NewReflectionInspector(classes ClassLoader) *ReflectionInspector {
	return &ReflectionInspector{classes: classes}
}

// IsMethodCallable reports whether the method can be called on target. For a class, only
// its constructor and named factories are callable.
func (i *ReflectionInspector) IsMethodCallable(target any, name string) bool {
	return i.MethodVisibility(target, name) == Visible
}

// IsPropertyReadable reports whether target exposes the property for reading.
func (i *ReflectionInspector) IsPropertyReadable(target any, name string) bool {
	_, ok := lookupProperty(reflect.ValueOf(target), name)

	return ok
}

// IsPropertyWritable reports whether target exposes the property for writing.
func (i *ReflectionInspector) IsPropertyWritable(target any, name string) bool {
	value := deref(reflect.ValueOf(target))

	switch value.Kind() {
	case reflect.Map:
		return !value.IsNil() && value.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		field, ok := lookupProperty(value, name)

		return ok && field.CanSet()
	default:
		return false
	}
}

// MethodVisibility is the tri-state behind IsMethodCallable: it tells a method that does
// not exist apart from one that exists but cannot be called.
func (i *ReflectionInspector) MethodVisibility(target any, name string) Visibility {
	if target == nil {
		return Absent
	}

	if class, ok := target.(*Class); ok {
		if name == ConstructorMethod && class.HasConstructor() || class.HasFactory(name) {
			return Visible
		}

		return Absent
	}

	return i.classes.ClassOf(target).MethodVisibility(name, reflect.TypeOf(target))
}

// deref follows non-nil pointers and interfaces down to the value they hold.
func deref(value reflect.Value) reflect.Value {
	for value.IsValid() && (value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface) {
		if value.IsNil() {
			return reflect.Value{}
		}

		value = value.Elem()
	}

	return value
}

// isObject reports whether value can carry members: structs, non-nil maps, pointers to
// objects, and any named type with methods. Scalars without methods are not objects.
func isObject(value any) bool {
	if value == nil {
		return false
	}

	reflected := reflect.ValueOf(value)

	switch reflected.Kind() {
	case reflect.Pointer:
		if reflected.IsNil() {
			return false
		}

		return reflected.Type().NumMethod() > 0 || isObject(reflected.Elem().Interface())
	case reflect.Map:
		return !reflected.IsNil()
	case reflect.Struct:
		return true
	default:
		return reflected.Type().NumMethod() > 0
	}
}

func lookupProperty(value reflect.Value, name string) (reflect.Value, bool) {
	value = deref(value)

	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}

		found := value.MapIndex(reflect.ValueOf(name).Convert(value.Type().Key()))

		return found, found.IsValid()
	case reflect.Struct:
		for _, candidate := range memberNames(name) {
			field, ok := value.Type().FieldByName(candidate)
			if !ok || !field.IsExported() {
				continue
			}

			fieldValue, err := value.FieldByIndexErr(field.Index)
			if err != nil {
				return reflect.Value{}, false
			}

			return fieldValue, true
		}

		return reflect.Value{}, false
	default:
		return reflect.Value{}, false
	}
}

func readProperty(target any, name string) (any, error) {
	value, ok := lookupProperty(reflect.ValueOf(target), name)
	if !ok {
		return nil, fmt.Errorf("property %q: %w", name, ErrArgumentMismatch)
	}

	return value.Interface(), nil
}

func writeProperty(target any, name string, newValue any) error {
	value := deref(reflect.ValueOf(target))

	if value.Kind() == reflect.Map {
		element, err := argValue(newValue, value.Type().Elem())
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}

		value.SetMapIndex(reflect.ValueOf(name).Convert(value.Type().Key()), element)

		return nil
	}

	field, ok := lookupProperty(value, name)
	if !ok || !field.CanSet() {
		return fmt.Errorf("property %q is not settable: %w", name, ErrArgumentMismatch)
	}

	converted, err := argValue(newValue, field.Type())
	if err != nil {
		return fmt.Errorf("property %q: %w", name, err)
	}

	field.Set(converted)

	return nil
}
