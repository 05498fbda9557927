package mediator

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidArgument is returned when a nil request is sent. No handler
	// is resolved or invoked.
	ErrInvalidArgument = errors.New("mediator: invalid argument")

	// ErrHandlerNotFound is returned when neither a closed nor an open
	// binding serves a request.
	ErrHandlerNotFound = errors.New("mediator: handler not found")

	// ErrUnsupportedRequestShape is returned by SendAny for values that do
	// not embed Returns.
	ErrUnsupportedRequestShape = errors.New("mediator: unsupported request shape")

	// ErrResponseType is returned by Send when a handler answered with a
	// value that is not of the request's response type.
	ErrResponseType = errors.New("mediator: unexpected response type")
)

var errNilRequest = fmt.Errorf("%w: nil request", ErrInvalidArgument)

// HandlerNotFoundError carries the descriptor nothing was bound to.
type HandlerNotFoundError struct {
	Descriptor Descriptor
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("mediator: no handler for %s", e.Descriptor)
}

// Is reports whether target is ErrHandlerNotFound.
func (e *HandlerNotFoundError) Is(target error) bool { return target == ErrHandlerNotFound }

// UnsupportedRequestShapeError carries the type of the rejected value.
type UnsupportedRequestShapeError struct {
	Type reflect.Type
}

func (e *UnsupportedRequestShapeError) Error() string {
	return fmt.Sprintf("mediator: %s does not embed mediator.Returns", typeString(e.Type))
}

// Is reports whether target is ErrUnsupportedRequestShape.
func (e *UnsupportedRequestShapeError) Is(target error) bool {
	return target == ErrUnsupportedRequestShape
}

// ResponseTypeError describes a handler result of the wrong type.
type ResponseTypeError struct {
	Descriptor Descriptor
	Got        reflect.Type
}

func (e *ResponseTypeError) Error() string {
	return fmt.Sprintf("mediator: handler for %s answered %s", e.Descriptor, typeString(e.Got))
}

// Is reports whether target is ErrResponseType.
func (e *ResponseTypeError) Is(target error) bool { return target == ErrResponseType }
