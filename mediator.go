package mediator

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"
)

// Sender dispatches requests whose concrete type is known only at run time.
// *Mediator implements it; hosts that only forward requests can depend on
// Sender instead.
type Sender interface {
	SendAny(ctx context.Context, req any) (any, error)
}

// Mediator routes each request to the one handler bound to it.
//
// Usage:
//  1. Fill a Registry (or any Bindings) with handlers
//  2. Create a mediator with New
//  3. Dispatch with Send, Exec or SendAny
//
// Mediator is safe for concurrent use once its Bindings are no longer being
// written to.
type Mediator struct {
	policy *policy
	hooks  hooks

	// descriptors memoises Descriptor per concrete request type.
	descriptors sync.Map // map[reflect.Type]described
}

var _ Sender = (*Mediator)(nil)

// New creates a Mediator resolving handlers through b.
//
// Example:
//
//	reg := mediator.NewRegistry()
//	mediator.RegisterFunc(reg, func(ctx context.Context, p Ping) (Pong, error) {
//	    return Pong{Message: p.Message + " Pong"}, nil
//	})
//
//	m := mediator.New(reg,
//	    mediator.WithOnFailure(func(ctx context.Context, d mediator.Descriptor, err error, dur time.Duration) {
//	        metrics.Incr("mediator.failure", "shape:"+string(d.Shape))
//	    }),
//	)
func New(b Bindings, opts ...Option) *Mediator {
	m := &Mediator{policy: newPolicy(b)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send dispatches req to its handler and returns the handler's response.
// Void requests answer Unit{}.
//
// ctx is handed to the handler as is, even when it is already cancelled;
// the mediator never inspects it. Handler errors and handler construction
// errors are returned unchanged. A nil request fails with ErrInvalidArgument
// before any resolution.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
//
// Example:
//
//	pong, err := mediator.Send[Pong](ctx, m, Ping{Message: "Ping"})
func Send[Resp any](ctx context.Context, m *Mediator, req Request[Resp]) (Resp, error) {
	var zero Resp
	if isNil(req) {
		return zero, errNilRequest
	}

	d, err := m.describe(req)
	if err != nil {
		return zero, err
	}
	res, err := m.dispatch(ctx, req, d)
	if err != nil || res == nil {
		return zero, err
	}
	return res.(Resp), nil
}

// Exec dispatches a void request.
func Exec(ctx context.Context, m *Mediator, req Request[Unit]) error {
	_, err := Send[Unit](ctx, m, req)
	return err
}

// SendAny dispatches a request held as any. The handler is chosen from the
// runtime type of req exactly as Send would choose it for that type, which
// lets heterogeneous requests share one call site:
//
//	for _, req := range []mediator.Message{Ping{Message: "Ping"}, Touch{}} {
//	    res, err := m.SendAny(ctx, req)
//	    ...
//	}
//
// Values that do not embed Returns, or embed it through a pointer, fail with
// ErrUnsupportedRequestShape.
func (m *Mediator) SendAny(ctx context.Context, req any) (any, error) {
	if isNil(req) {
		return nil, errNilRequest
	}
	msg, ok := req.(Message)
	if !ok {
		return nil, &UnsupportedRequestShapeError{Type: reflect.TypeOf(req)}
	}
	d, err := m.describe(msg)
	if err != nil {
		return nil, err
	}
	return m.dispatch(ctx, msg, d)
}

type described struct {
	d   Descriptor
	err error
}

func (m *Mediator) describe(msg Message) (Descriptor, error) {
	t := reflect.TypeOf(msg)
	if v, ok := m.descriptors.Load(t); ok {
		e := v.(described)
		return e.d, e.err
	}
	d, err := DescriptorOf(msg)
	m.descriptors.Store(t, described{d: d, err: err})
	return d, err
}

// dispatch resolves, constructs and invokes the handler for req.
//
// The processing flow:
//  1. Resolve a producer (closed binding, then open binding)
//  2. Construct the handler instance
//  3. Call the handler
//  4. Check the response against d.Response
//
// Hooks are called at appropriate points throughout this flow.
func (m *Mediator) dispatch(ctx context.Context, req Message, d Descriptor) (any, error) {
	producer, err := m.policy.resolve(d)
	if err != nil {
		if errors.Is(err, ErrHandlerNotFound) {
			m.hooks.callOnNoHandler(ctx, d, err)
		} else {
			m.hooks.callOnResolveError(ctx, d, err)
		}
		return nil, err
	}

	invoke, err := producer()
	if err != nil {
		m.hooks.callOnResolveError(ctx, d, err)
		return nil, err
	}

	ctx = m.hooks.callOnDispatch(ctx, d)

	start := time.Now()
	res, err := invoke(ctx, req)
	duration := time.Since(start)

	if err == nil && !d.IsVoid() && res != nil && !answers(res, d.Response) {
		err = &ResponseTypeError{Descriptor: d, Got: reflect.TypeOf(res)}
	}
	if err != nil {
		m.hooks.callOnFailure(ctx, d, err, duration)
		return nil, err
	}
	m.hooks.callOnSuccess(ctx, d, duration)

	if d.IsVoid() {
		return Unit{}, nil
	}
	return res, nil
}

// answers reports whether res would pass a type assertion to t.
func answers(res any, t reflect.Type) bool {
	rt := reflect.TypeOf(res)
	if t.Kind() == reflect.Interface {
		return rt.Implements(t)
	}
	return rt == t
}
