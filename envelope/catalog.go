package envelope

import (
	"context"
	"errors"
	"fmt"
	"path"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/iancoleman/strcase"

	"github.com/bjaus/mediator"
)

var (
	// ErrMalformedEnvelope is returned when valid JSON does not match the
	// envelope discriminator.
	ErrMalformedEnvelope = errors.New("envelope: malformed envelope")

	// ErrUnknownRequest is returned when the envelope names a request that
	// was never added to the catalog.
	ErrUnknownRequest = errors.New("envelope: unknown request")

	// ErrInvalidPayload is matched by payloads that fail to decode or to
	// validate.
	ErrInvalidPayload = errors.New("envelope: invalid payload")
)

// validatable is implemented by requests that check their own payload.
// Compatible with github.com/go-ozzo/ozzo-validation/v4.
type validatable interface {
	Validate() error
}

// UnknownRequestError carries the unknown request name.
type UnknownRequestError struct {
	Name string
}

func (e *UnknownRequestError) Error() string {
	return fmt.Sprintf("envelope: unknown request %q", e.Name)
}

// Is reports whether target is ErrUnknownRequest.
func (e *UnknownRequestError) Is(target error) bool { return target == ErrUnknownRequest }

// PayloadError wraps the decode or validation error of a named request.
type PayloadError struct {
	Name string

	// Validation is set when the payload decoded but failed Validate.
	Validation bool

	Err error
}

func (e *PayloadError) Error() string {
	op := "decode"
	if e.Validation {
		op = "validate"
	}
	return fmt.Sprintf("envelope: %s %s: %v", op, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *PayloadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidPayload.
func (e *PayloadError) Is(target error) bool { return target == ErrInvalidPayload }

// Named lets a request type choose its catalog name.
type Named interface {
	RequestName() string
}

// NameOf returns the catalog name of v: the name chosen by Named, or
// "<package>:<kebab-type>" derived from the type. Type arguments of generic
// types are appended as ".<kebab-arg>".
//
//	NameOf(Ping{})               // "pingpong:ping"
//	NameOf(&UserCreated{})       // "users:user-created"
//	NameOf(Echo[Note]{})         // "pingpong:echo.note"
func NameOf(v any) string {
	if n, ok := v.(Named); ok {
		return n.RequestName()
	}
	return nameOfType(reflect.TypeOf(v))
}

func nameOfType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	var args []string
	if i := strings.IndexByte(name, '['); i >= 0 {
		for _, a := range splitArgs(name[i+1 : len(name)-1]) {
			args = append(args, argName(a))
		}
		name = name[:i]
	}

	out := path.Base(t.PkgPath()) + ":" + strcase.ToKebab(name)
	for _, a := range args {
		out += "." + a
	}
	return out
}

// argName renders one type argument as reflect prints it, flattening its own
// arguments: "pkg.Pair[int,string]" becomes "pair.int.string".
func argName(a string) string {
	a = strings.TrimLeft(a, "*")
	var inner []string
	if i := strings.IndexByte(a, '['); i > 0 && strings.HasSuffix(a, "]") {
		inner = splitArgs(a[i+1 : len(a)-1])
		a = a[:i]
	}
	if j := strings.LastIndexByte(a, '.'); j >= 0 {
		a = a[j+1:]
	}
	out := strcase.ToKebab(a)
	for _, in := range inner {
		out += "." + argName(in)
	}
	return out
}

// splitArgs splits a type argument list on the commas outside brackets.
func splitArgs(list string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, list[start:i])
				start = i + 1
			}
		}
	}
	return append(out, list[start:])
}

type decoder func(payload []byte) (mediator.Message, error)

// Catalog decodes JSON envelopes into requests:
//
//	{"request": "pingpong:ping", "payload": {"message": "Ping"}}
//
// Fill it with Add during setup; afterwards it is only read and is safe for
// concurrent use.
type Catalog struct {
	inspector     Inspector
	nameField     string
	payloadField  string
	discriminator Discriminator
	decoders      map[string]decoder
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithNameField sets the path holding the request name. Default "request".
func WithNameField(p string) Option {
	return func(c *Catalog) { c.nameField = p }
}

// WithPayloadField sets the path holding the request payload. Default
// "payload". A missing payload decodes to the zero request.
func WithPayloadField(p string) Option {
	return func(c *Catalog) { c.payloadField = p }
}

// WithInspector replaces the default JSON inspector.
func WithInspector(i Inspector) Option {
	return func(c *Catalog) { c.inspector = i }
}

// WithDiscriminator adds a discriminator every envelope must match on top of
// the presence of the name field.
//
//	envelope.WithDiscriminator(envelope.FieldEquals("version", "1"))
func WithDiscriminator(d Discriminator) Option {
	return func(c *Catalog) { c.discriminator = d }
}

// New creates an empty Catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		inspector:    JSONInspector(),
		nameField:    "request",
		payloadField: "payload",
		decoders:     make(map[string]decoder),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add registers the request type T under NameOf(T) and returns that name.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
func Add[T mediator.Message](c *Catalog) string {
	t := mediator.TypeOf[T]()
	name := nameOfType(t)

	var probe any
	if t.Kind() == reflect.Pointer {
		probe = reflect.New(t.Elem()).Interface()
	} else {
		var zero T
		probe = zero
	}
	if n, ok := probe.(Named); ok {
		name = n.RequestName()
	}
	AddNamed[T](c, name)
	return name
}

// AddNamed registers the request type T under name. A second registration
// for the same name panics.
func AddNamed[T mediator.Message](c *Catalog, name string) {
	if _, exists := c.decoders[name]; exists {
		panic(fmt.Sprintf("envelope: request %q already added", name))
	}
	t := mediator.TypeOf[T]()
	c.decoders[name] = func(payload []byte) (mediator.Message, error) {
		if t.Kind() == reflect.Pointer {
			v := reflect.New(t.Elem()).Interface().(T)
			if len(payload) > 0 {
				if err := json.Unmarshal(payload, v); err != nil {
					return nil, &PayloadError{Name: name, Err: err}
				}
			}
			if err := validate(v); err != nil {
				return nil, &PayloadError{Name: name, Validation: true, Err: err}
			}
			return v, nil
		}

		var v T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &v); err != nil {
				return nil, &PayloadError{Name: name, Err: err}
			}
		}
		if err := validate(&v); err != nil {
			return nil, &PayloadError{Name: name, Validation: true, Err: err}
		}
		return v, nil
	}
}

// validate runs Validate on v, or on the value v points to.
func validate(v any) error {
	if val, ok := v.(validatable); ok {
		return val.Validate()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		if val, ok := rv.Elem().Interface().(validatable); ok {
			return val.Validate()
		}
	}
	return nil
}

// Names lists the registered request names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.decoders))
	for n := range c.decoders {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Decode turns a raw envelope into the request it names.
//
// The processing flow:
//  1. Inspect the raw bytes
//  2. Check the name field and the optional discriminator
//  3. Look up the decoder by name
//  4. Unmarshal the payload into a fresh request value
//  5. Validate the request if it implements Validate() error
func (c *Catalog) Decode(raw []byte) (mediator.Message, error) {
	view, err := c.inspector.Inspect(raw)
	if err != nil {
		return nil, err
	}

	name, ok := view.Text(c.nameField)
	if !ok || name == "" || (c.discriminator != nil && !c.discriminator.Match(view)) {
		return nil, ErrMalformedEnvelope
	}

	decode, found := c.decoders[name]
	if !found {
		return nil, &UnknownRequestError{Name: name}
	}

	payload, _ := view.Raw(c.payloadField)
	return decode(payload)
}

// Dispatch decodes raw and sends the request through s.
//
// Example:
//
//	// In an HTTP handler
//	res, err := catalog.Dispatch(r.Context(), m, body)
func (c *Catalog) Dispatch(ctx context.Context, s mediator.Sender, raw []byte) (any, error) {
	msg, err := c.Decode(raw)
	if err != nil {
		return nil, err
	}
	return s.SendAny(ctx, msg)
}
