package core

import (
	"fmt"
	"slices"
)

// Fracture kinds.
const (
	KindClassNotFound Kind = iota + 1
	KindMethodNotFound
	KindMethodNotVisible
	KindNamedConstructorNotFound
	KindPropertyNotFound
	KindOperationOnNonObject
	KindFactoryDidNotReturnObject
)

// Sentinels for errors.Is. A Fracture matches the sentinel of its kind.
var (
	ErrClassNotFound             = &Fracture{Kind: KindClassNotFound}
	ErrFactoryDidNotReturnObject = &Fracture{Kind: KindFactoryDidNotReturnObject}
	ErrMethodNotFound            = &Fracture{Kind: KindMethodNotFound}
	ErrMethodNotVisible          = &Fracture{Kind: KindMethodNotVisible}
	ErrNamedConstructorNotFound  = &Fracture{Kind: KindNamedConstructorNotFound}
	ErrOperationOnNonObject      = &Fracture{Kind: KindOperationOnNonObject}
	ErrPropertyNotFound          = &Fracture{Kind: KindPropertyNotFound}
)

// ExceptionFactory builds the fracture for each way an operation on a subject can fail.
// All message wording lives behind it.
type ExceptionFactory interface {
	ClassNotFound(className string) *Fracture
	MethodNotFound(className, method string, args []any) *Fracture
	MethodNotVisible(className, method string, args []any) *Fracture
	NamedConstructorNotFound(className, method string, args []any) *Fracture
	FactoryDidNotReturnObject(className, method string, returned any) *Fracture
	PropertyNotFound(subject any, property string) *Fracture
	CallingMethodOnNonObject(method string) *Fracture
	SettingPropertyOnNonObject(property string) *Fracture
	GettingPropertyOnNonObject(property string) *Fracture
}

// Exceptions is the default ExceptionFactory. When a class can be loaded, method
// fractures carry a zero instance of it as their subject.
type Exceptions struct {
	classes ClassLoader
}

// NewExceptions creates a factory. classes may be nil.
func NewExceptions(classes ClassLoader) *Exceptions {
	return &Exceptions{classes: classes}
}

// CallingMethodOnNonObject reports a method call on something that is not an object.
func (e *Exceptions) CallingMethodOnNonObject(method string) *Fracture {
	return &Fracture{
		Kind:    KindOperationOnNonObject,
		Message: fmt.Sprintf("Call to a member function %s on a non-object.", present(method+"()")),
		Label:   method,
	}
}

// ClassNotFound reports a class name that resolves to nothing.
func (e *Exceptions) ClassNotFound(className string) *Fracture {
	return &Fracture{
		Kind:    KindClassNotFound,
		Message: fmt.Sprintf("Class %s does not exist.", present(className)),
		Label:   className,
	}
}

// FactoryDidNotReturnObject reports a named constructor whose result is not an object.
func (e *Exceptions) FactoryDidNotReturnObject(className, method string, returned any) *Fracture {
	returnedType := "nil"
	if returned != nil {
		returnedType = fmt.Sprintf("%T", returned)
	}

	message := fmt.Sprintf(
		"The method %s did not return an object, returned %s instead.",
		present(className+"::"+method+"()"), returnedType,
	)

	return &Fracture{
		Kind:    KindFactoryDidNotReturnObject,
		Message: message,
		Subject: returned,
		Label:   className + "::" + method,
	}
}

// GettingPropertyOnNonObject reports a property read on something that is not an object.
func (e *Exceptions) GettingPropertyOnNonObject(property string) *Fracture {
	return &Fracture{
		Kind:     KindOperationOnNonObject,
		Message:  fmt.Sprintf("Getting property %s on a non-object.", present(property)),
		Label:    property,
		Property: property,
	}
}

// MethodNotFound reports a method the class does not have.
func (e *Exceptions) MethodNotFound(className, method string, args []any) *Fracture {
	return e.methodFracture(KindMethodNotFound, "Method %s not found.", className, method, args)
}

// MethodNotVisible reports a method the class has but does not expose.
func (e *Exceptions) MethodNotVisible(className, method string, args []any) *Fracture {
	return e.methodFracture(KindMethodNotVisible, "Method %s not visible.", className, method, args)
}

// NamedConstructorNotFound reports a factory method the class does not have.
func (e *Exceptions) NamedConstructorNotFound(className, method string, args []any) *Fracture {
	return e.methodFracture(KindNamedConstructorNotFound, "Named constructor %s not found.", className, method, args)
}

// PropertyNotFound reports a property the subject does not expose.
func (e *Exceptions) PropertyNotFound(subject any, property string) *Fracture {
	return &Fracture{
		Kind:     KindPropertyNotFound,
		Message:  fmt.Sprintf("Property %s not found.", present(property)),
		Subject:  subject,
		Label:    property,
		Property: property,
	}
}

// SettingPropertyOnNonObject reports a property write on something that is not an object.
func (e *Exceptions) SettingPropertyOnNonObject(property string) *Fracture {
	return &Fracture{
		Kind:     KindOperationOnNonObject,
		Message:  fmt.Sprintf("Setting property %s on a non-object.", present(property)),
		Label:    property,
		Property: property,
	}
}

func (e *Exceptions) methodFracture(kind Kind, format, className, method string, args []any) *Fracture {
	var subject any

	if e.classes != nil {
		if class, err := e.classes.Load(className); err == nil {
			subject = class.zero()
		}
	}

	return &Fracture{
		Kind:      kind,
		Message:   fmt.Sprintf(format, present(className+"::"+method+"()")),
		Subject:   subject,
		Label:     className + "::" + method,
		Arguments: slices.Clone(args),
	}
}

// Fracture is a structured failure: an operation the subject could not perform.
type Fracture struct {
	Kind    Kind
	Message string
	// Subject is the object involved, when there is one.
	Subject any
	// Label names the failing call site, like "Account::withdraw" or a property name.
	Label     string
	Arguments []any
	Property  string
}

func (f *Fracture) Error() string {
	if f.Message == "" {
		return f.Kind.String()
	}

	return f.Message
}

// Is matches any fracture of the same kind, so the Err* sentinels work with errors.Is.
func (f *Fracture) Is(target error) bool {
	other, ok := target.(*Fracture)

	return ok && other.Kind == f.Kind
}

// Kind classifies fractures.
type Kind int

func (k Kind) String() string {
	switch k {
	case KindClassNotFound:
		return "class not found"
	case KindMethodNotFound:
		return "method not found"
	case KindMethodNotVisible:
		return "method not visible"
	case KindNamedConstructorNotFound:
		return "named constructor not found"
	case KindPropertyNotFound:
		return "property not found"
	case KindOperationOnNonObject:
		return "operation on non-object"
	case KindFactoryDidNotReturnObject:
		return "factory did not return object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// present quotes a name for a message.
func present(name string) string {
	return `"` + name + `"`
}
