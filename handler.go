package mediator

import (
	"context"
	"fmt"
)

// Handler produces the response for one closed request type.
//
// Example:
//
//	type PingHandler struct{}
//
//	func (PingHandler) Handle(ctx context.Context, p Ping) (Pong, error) {
//	    return Pong{Message: p.Message + " Pong"}, nil
//	}
type Handler[Req Request[Resp], Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc[Req Request[Resp], Resp any] func(ctx context.Context, req Req) (Resp, error)

// Handle implements the Handler interface.
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// VoidHandler handles a request that produces no response. The mediator
// answers such requests with Unit.
type VoidHandler[Req Request[Unit]] interface {
	Handle(ctx context.Context, req Req) error
}

// VoidHandlerFunc is a function adapter for VoidHandler.
type VoidHandlerFunc[Req Request[Unit]] func(ctx context.Context, req Req) error

// Handle implements the VoidHandler interface.
func (f VoidHandlerFunc[Req]) Handle(ctx context.Context, req Req) error {
	return f(ctx, req)
}

// OpenHandler serves every closed instantiation of one open request shape.
// It receives the request erased; the concrete type arguments it was bound to
// are handed to its constructor (see RegisterOpen).
//
// An open handler may return nil for void requests; the mediator answers with
// Unit regardless.
type OpenHandler interface {
	HandleOpen(ctx context.Context, req any) (any, error)
}

// OpenHandlerFunc is a function adapter for OpenHandler.
type OpenHandlerFunc func(ctx context.Context, req any) (any, error)

// HandleOpen implements the OpenHandler interface.
func (f OpenHandlerFunc) HandleOpen(ctx context.Context, req any) (any, error) {
	return f(ctx, req)
}

// Invoker is a closed handler instance with its request and response erased
// so that handlers of every type can share one table.
type Invoker func(ctx context.Context, req any) (any, error)

func invokerOf[Req Request[Resp], Resp any](h Handler[Req, Resp]) Invoker {
	return func(ctx context.Context, req any) (any, error) {
		typed, ok := req.(Req)
		if !ok {
			return nil, fmt.Errorf("mediator: handler for %v received %T", TypeOf[Req](), req)
		}
		return h.Handle(ctx, typed)
	}
}

// voidAdapter turns a VoidHandler into a Handler answering Unit.
type voidAdapter[Req Request[Unit]] struct {
	h VoidHandler[Req]
}

func (a voidAdapter[Req]) Handle(ctx context.Context, req Req) (Unit, error) {
	return Unit{}, a.h.Handle(ctx, req)
}
