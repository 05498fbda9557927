package mediator

import (
	"reflect"
	"strings"
)

// Unit is the response of a void request. Unit{} is its only value.
type Unit struct{}

// String implements fmt.Stringer.
func (Unit) String() string { return "()" }

var unitType = TypeOf[Unit]()

// Message is the erased shape shared by every request. A type satisfies
// Message only by embedding Returns, which is how the mediator recovers the
// response type of a value it only holds as any.
type Message interface {
	// ResponseType reports the response type declared through Returns.
	ResponseType() reflect.Type

	isRequest()
}

var messageType = TypeOf[Message]()

// Request is a Message whose response type is R.
type Request[R any] interface {
	Message

	response() R
}

// Returns declares the response type of a request. Embed it in every request
// type:
//
//	type Ping struct {
//	    mediator.Returns[Pong]
//	    Message string
//	}
//
// Requests that produce no response embed Void instead.
type Returns[R any] struct{}

// ResponseType implements Message.
func (Returns[R]) ResponseType() reflect.Type { return TypeOf[R]() }

func (Returns[R]) isRequest() {}

func (Returns[R]) response() (r R) { return r }

// Void declares a request without a meaningful response. Sending it yields
// Unit.
type Void = Returns[Unit]

// TypeArgs lists the concrete type arguments of a generic request in
// declaration order.
type TypeArgs []reflect.Type

// String renders the arguments as they appear in an instantiation.
func (a TypeArgs) String() string {
	parts := make([]string, len(a))
	for i, t := range a {
		parts[i] = typeString(t)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// key is like String but uses package paths so that equally named types in
// different packages never collide.
func (a TypeArgs) key() string {
	parts := make([]string, len(a))
	for i, t := range a {
		parts[i] = typeID(t)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Parameterized is implemented by generic request types so that their type
// arguments can take part in open handler resolution:
//
//	type GenericPing[T Ponger] struct {
//	    mediator.Returns[T]
//	    Pong T
//	}
//
//	func (GenericPing[T]) TypeArgs() mediator.TypeArgs {
//	    return mediator.TypeArgs{mediator.TypeOf[T]()}
//	}
//
// A generic request without TypeArgs is still dispatchable, but only to
// handlers registered for its exact instantiation.
type Parameterized interface {
	TypeArgs() TypeArgs
}

// TypeOf returns the reflect.Type of T. Unlike reflect.TypeOf it also works
// for interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// isNil reports whether v is nil or a nil pointer, map, slice, func, chan or
// interface wrapped in a non-nil interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
