package mediator

import (
	"reflect"
	"strings"
)

// Shape identifies a request type with its instantiation removed. All closed
// instantiations of GenericPing[T] share one Shape; a non-generic request
// type is its own Shape. Pointer request types are prefixed with "*".
type Shape string

// ShapeOf returns the Shape of T. Any instantiation of a generic request type
// yields the Shape of the whole family:
//
//	mediator.ShapeOf[GenericPing[*Pong]]() == mediator.ShapeOf[GenericPing[*OtherPong]]()
func ShapeOf[T any]() Shape {
	t := TypeOf[T]()
	return shapeOf(t, isParameterized(t))
}

// Descriptor identifies the handler a request needs: its Shape, its concrete
// type arguments and its response type. Two descriptors are equal iff all
// three match.
type Descriptor struct {
	// Type is the concrete request type the descriptor was built from. It is
	// informational and not part of the identity.
	Type reflect.Type

	Shape    Shape
	Args     TypeArgs
	Response reflect.Type
}

// Describe builds the descriptor of the request type Req.
func Describe[Req Request[Resp], Resp any]() Descriptor {
	return describe(TypeOf[Req](), TypeOf[Resp](), sample(TypeOf[Req]()))
}

// DescriptorOf builds the descriptor of a request value from its runtime
// type. Types that reach Returns through an embedded pointer fail with
// ErrUnsupportedRequestShape: the pointer may be nil, so the value cannot
// describe itself.
func DescriptorOf(msg Message) (Descriptor, error) {
	t := reflect.TypeOf(msg)
	if returnsByPointer(t) {
		return Descriptor{}, &UnsupportedRequestShapeError{Type: t}
	}
	return describe(t, msg.ResponseType(), msg), nil
}

// returnsByPointer reports whether the Message methods of t are promoted
// through an embedded pointer field.
func returnsByPointer(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous || !f.Type.Implements(messageType) {
			continue
		}
		if f.Type.Kind() == reflect.Pointer {
			return true
		}
		if f.Type.Kind() == reflect.Struct && returnsByPointer(f.Type) {
			return true
		}
	}
	return false
}

func describe(t, response reflect.Type, v any) Descriptor {
	d := Descriptor{Type: t, Response: response}
	p, ok := v.(Parameterized)
	if ok {
		d.Args = p.TypeArgs()
	}
	d.Shape = shapeOf(t, ok)
	return d
}

// Key renders the identity of d. Descriptors with equal keys are equal.
func (d Descriptor) Key() string {
	var b strings.Builder
	b.WriteString(string(d.Shape))
	if len(d.Args) > 0 {
		b.WriteString(d.Args.key())
	}
	b.WriteString(" -> ")
	b.WriteString(typeID(d.Response))
	return b.String()
}

// Equal reports whether d and other describe the same request.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.Key() == other.Key()
}

// IsVoid reports whether the request produces Unit.
func (d Descriptor) IsVoid() bool {
	return d.Response == unitType
}

// Generic reports whether the request carries type arguments and so may be
// served by an open binding.
func (d Descriptor) Generic() bool {
	return len(d.Args) > 0
}

func (d Descriptor) String() string {
	name := string(d.Shape)
	if d.Type != nil {
		name = d.Type.String()
	}
	return name + " -> " + typeString(d.Response)
}

func shapeOf(t reflect.Type, parameterized bool) Shape {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		return "*" + shapeOf(t.Elem(), parameterized)
	}

	name := t.Name()
	if name == "" {
		return Shape(t.String())
	}
	if parameterized {
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
	}
	if t.PkgPath() == "" {
		return Shape(name)
	}
	return Shape(t.PkgPath() + "." + name)
}

func isParameterized(t reflect.Type) bool {
	return t != nil && t.Implements(TypeOf[Parameterized]())
}

// sample returns a value of t usable for calling methods that ignore their
// receiver's contents. Pointer types get a freshly allocated element.
func sample(t reflect.Type) any {
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem()).Interface()
	case reflect.Interface:
		return nil
	default:
		return reflect.Zero(t).Interface()
	}
}

func typeID(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		return "*" + typeID(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
