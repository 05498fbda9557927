package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sort"
)

// Producer constructs a handler instance. An error means the instance could
// not be built (for example an unmet dependency); the mediator returns it to
// the caller unchanged.
type Producer func() (Invoker, error)

// OpenFactory binds an open handler definition to the concrete type arguments
// of a descriptor, yielding a closed Producer.
type OpenFactory func(d Descriptor) (Producer, error)

// Constraint restricts the concrete type accepted for one type parameter of
// an open binding.
type Constraint func(t reflect.Type) bool

// Any accepts every type.
func Any(reflect.Type) bool { return true }

// Implements accepts types implementing the interface I.
func Implements[I any]() Constraint {
	it := TypeOf[I]()
	if it.Kind() != reflect.Interface {
		panic(fmt.Sprintf("mediator: Implements requires an interface type, got %s", it))
	}
	return func(t reflect.Type) bool { return t.Implements(it) }
}

// AssignableTo accepts types assignable to T.
func AssignableTo[T any]() Constraint {
	tt := TypeOf[T]()
	return func(t reflect.Type) bool { return t.AssignableTo(tt) }
}

// OpenBinding registers a handler definition for every closed instantiation
// of Shape whose type arguments satisfy Constraints.
type OpenBinding struct {
	Shape Shape

	// Constraints holds one entry per type parameter. An empty list accepts
	// any arguments.
	Constraints []Constraint

	Factory OpenFactory
}

// Satisfied reports whether args match the arity and constraints of b.
func (b OpenBinding) Satisfied(args TypeArgs) bool {
	if len(b.Constraints) == 0 {
		return true
	}
	if len(args) != len(b.Constraints) {
		return false
	}
	for i, c := range b.Constraints {
		if args[i] == nil || !c(args[i]) {
			return false
		}
	}
	return true
}

// Bindings is the lookup the mediator resolves handlers through. Registry is
// the in-memory implementation; an injection container can provide its own.
type Bindings interface {
	// ResolveProducer returns the producer bound to exactly d.
	ResolveProducer(d Descriptor) (Producer, bool)

	// ResolveOpenProducer returns the open binding registered for shape.
	ResolveOpenProducer(shape Shape) (OpenBinding, bool)
}

type closedBinding struct {
	descriptor Descriptor
	producer   Producer
}

// Registry is an in-memory Bindings table.
//
// Registration is not synchronized: register everything before the first
// Send, after which the Registry is only read and is safe for concurrent use.
type Registry struct {
	closed map[string]closedBinding
	open   map[Shape]OpenBinding
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		closed: make(map[string]closedBinding),
		open:   make(map[Shape]OpenBinding),
	}
}

// Bind associates a producer with the closed descriptor d. A later Bind for
// an equal descriptor replaces the earlier one.
func (r *Registry) Bind(d Descriptor, p Producer) {
	if p == nil {
		panic(fmt.Sprintf("mediator: nil producer for %s", d))
	}
	r.closed[d.Key()] = closedBinding{descriptor: d, producer: p}
}

// BindOpen registers an open binding. Two open bindings for one shape would
// make resolution ambiguous, so a second BindOpen for the same shape panics.
func (r *Registry) BindOpen(b OpenBinding) {
	if b.Factory == nil {
		panic(fmt.Sprintf("mediator: nil open factory for %s", b.Shape))
	}
	if _, exists := r.open[b.Shape]; exists {
		panic(fmt.Sprintf("mediator: ambiguous open bindings for %s", b.Shape))
	}
	r.open[b.Shape] = b
}

// ResolveProducer implements Bindings.
func (r *Registry) ResolveProducer(d Descriptor) (Producer, bool) {
	b, ok := r.closed[d.Key()]
	if !ok {
		return nil, false
	}
	return b.producer, true
}

// ResolveOpenProducer implements Bindings.
func (r *Registry) ResolveOpenProducer(shape Shape) (OpenBinding, bool) {
	b, ok := r.open[shape]
	return b, ok
}

// Descriptors lists the closed bindings ordered by key.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.closed))
	for _, b := range r.closed {
		out = append(out, b.descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Shapes lists the shapes with an open binding, sorted.
func (r *Registry) Shapes() []Shape {
	out := make([]Shape, 0, len(r.open))
	for s := range r.open {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Register binds a handler factory to the request type Req. The factory runs
// on every Send, so it can pull fresh instances from a container; its error
// is returned to the caller unchanged.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
//
// Example:
//
//	mediator.Register(reg, func() (mediator.Handler[Ping, Pong], error) {
//	    return &PingHandler{}, nil
//	})
func Register[Req Request[Resp], Resp any](r *Registry, newHandler func() (Handler[Req, Resp], error)) {
	r.Bind(Describe[Req, Resp](), func() (Invoker, error) {
		h, err := newHandler()
		if err != nil {
			return nil, err
		}
		return invokerOf(h), nil
	})
}

// RegisterHandler binds a single handler instance to the request type Req.
func RegisterHandler[Req Request[Resp], Resp any](r *Registry, h Handler[Req, Resp]) {
	inv := invokerOf(h)
	r.Bind(Describe[Req, Resp](), func() (Invoker, error) { return inv, nil })
}

// RegisterFunc is a convenience function for registering a handler function.
//
// Example:
//
//	mediator.RegisterFunc(reg, func(ctx context.Context, p Ping) (Pong, error) {
//	    return Pong{Message: p.Message + " Pong"}, nil
//	})
func RegisterFunc[Req Request[Resp], Resp any](r *Registry, fn func(ctx context.Context, req Req) (Resp, error)) {
	RegisterHandler[Req, Resp](r, HandlerFunc[Req, Resp](fn))
}

// RegisterVoid binds a void handler factory to the request type Req.
func RegisterVoid[Req Request[Unit]](r *Registry, newHandler func() (VoidHandler[Req], error)) {
	Register[Req, Unit](r, func() (Handler[Req, Unit], error) {
		h, err := newHandler()
		if err != nil {
			return nil, err
		}
		return voidAdapter[Req]{h: h}, nil
	})
}

// RegisterVoidFunc is a convenience function for registering a void handler
// function.
func RegisterVoidFunc[Req Request[Unit]](r *Registry, fn func(ctx context.Context, req Req) error) {
	RegisterHandler[Req, Unit](r, voidAdapter[Req]{h: VoidHandlerFunc[Req](fn)})
}

// RegisterOpen binds an open handler definition to every instantiation of
// shape whose type arguments satisfy constraints, one constraint per type
// parameter. newHandler receives the concrete type arguments of the request
// being served. A closed registration for a specific instantiation always
// takes precedence.
//
// Example:
//
//	mediator.RegisterOpen(reg, mediator.ShapeOf[GenericPing[*Pong]](),
//	    func(args mediator.TypeArgs) (mediator.OpenHandler, error) {
//	        return &GenericPingHandler{arg: args[0]}, nil
//	    },
//	    mediator.Implements[Ponger](),
//	)
func RegisterOpen(r *Registry, shape Shape, newHandler func(args TypeArgs) (OpenHandler, error), constraints ...Constraint) {
	r.BindOpen(OpenBinding{
		Shape:       shape,
		Constraints: constraints,
		Factory: func(d Descriptor) (Producer, error) {
			args := d.Args
			return func() (Invoker, error) {
				h, err := newHandler(args)
				if err != nil {
					return nil, err
				}
				return h.HandleOpen, nil
			}, nil
		},
	})
}
