// Package mediator provides an in-process request mediator.
//
// A caller hands the mediator one request value; the mediator routes it to
// exactly one handler and returns that handler's response. Callers never need
// to know which handler serves a request or where it lives.
//
// # Quick Start
//
// Define a request by embedding Returns with its response type, and a handler
// for it:
//
//	type Ping struct {
//	    mediator.Returns[Pong]
//	    Message string
//	}
//
//	type Pong struct {
//	    Message string
//	}
//
//	type PingHandler struct{}
//
//	func (PingHandler) Handle(ctx context.Context, p Ping) (Pong, error) {
//	    return Pong{Message: p.Message + " Pong"}, nil
//	}
//
// Register the handler and send the request:
//
//	reg := mediator.NewRegistry()
//	mediator.RegisterHandler[Ping, Pong](reg, PingHandler{})
//
//	m := mediator.New(reg)
//	pong, err := mediator.Send[Pong](ctx, m, Ping{Message: "Ping"})
//
// # Requests
//
// Every request type embeds Returns[R], which fixes its response type R at
// compile time. Requests without a meaningful response embed Void and are
// answered with Unit{}:
//
//	type Touch struct {
//	    mediator.Void
//	    ID string
//	}
//
//	err := mediator.Exec(ctx, m, Touch{ID: "42"})
//
// Because the marker carries an unexported method, embedding Returns is the
// only way to satisfy Message. This is how the mediator recovers the response
// type of a value it only holds as any.
//
// # Static and dynamic dispatch
//
// Send dispatches a request whose response type is known at the call site.
// SendAny dispatches a value held as any (for example a []Message of mixed
// requests); it reads the value's own Returns marker and routes it exactly
// as Send would:
//
//	reqs := []mediator.Message{Ping{Message: "Ping"}, Touch{ID: "42"}}
//	for _, req := range reqs {
//	    res, err := m.SendAny(ctx, req)
//	    ...
//	}
//
// # Generic requests
//
// A generic request type reports its type arguments by implementing
// Parameterized:
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
// A single OpenHandler can then serve the whole family. RegisterOpen binds it
// to a Shape (the request type without its instantiation) and one Constraint
// per type parameter:
//
//	mediator.RegisterOpen(reg, mediator.ShapeOf[GenericPing[*Pong]](),
//	    func(args mediator.TypeArgs) (mediator.OpenHandler, error) {
//	        return &GenericPingHandler{}, nil
//	    },
//	    mediator.Implements[Ponger](),
//	)
//
// # Resolution
//
// Each request is reduced to a Descriptor: its Shape, its type arguments and
// its response type. Resolution then runs two explicit steps:
//
//  1. Exact: a handler registered for the exact closed descriptor wins.
//  2. Open: otherwise an open binding for the descriptor's Shape whose
//     constraints accept the type arguments is bound to those arguments.
//     The resulting producer is cached per descriptor.
//
// If neither step matches, Send fails with ErrHandlerNotFound. A closed
// registration therefore overrides the open family for one instantiation
// without affecting the rest.
//
// Two open bindings for one Shape would be ambiguous; Registry rejects the
// second at registration time.
//
// # Bindings
//
// The mediator reads handlers through the Bindings interface. Registry is the
// in-memory implementation. A Producer constructs the handler instance for
// each call, so handler factories can pull dependencies from a container; a
// construction error is returned to the caller unchanged.
//
// # Hooks
//
// Hooks provide observability without coupling to specific logging or metrics
// systems. Use functional options to configure them:
//
//	m := mediator.New(reg,
//	    mediator.WithOnSuccess(func(ctx context.Context, d mediator.Descriptor, dur time.Duration) {
//	        metrics.Timing("mediator.success", dur, "shape:"+string(d.Shape))
//	    }),
//	    mediator.WithObserver(logging.New(log.Logger)),
//	)
//
// Available hooks:
//   - WithOnDispatch: Called before the handler runs, enriches context
//   - WithOnSuccess: Called after the handler succeeds
//   - WithOnFailure: Called after the handler fails
//   - WithOnNoHandler: Called when nothing is bound for the request
//   - WithOnResolveError: Called when the handler cannot be constructed
//
// WithObserver accepts a value implementing any of the matching hook
// interfaces. Hooks only observe: they never change the result or the error
// returned to the caller.
//
// # Errors
//
//   - ErrInvalidArgument: the request is nil
//   - ErrHandlerNotFound: no binding serves the request (HandlerNotFoundError)
//   - ErrUnsupportedRequestShape: SendAny got a value without Returns
//   - ErrResponseType: a handler answered with the wrong type
//
// Handler errors and handler construction errors are returned as produced.
//
// # Thread Safety
//
// Every call runs on the caller's goroutine. Mediator is safe for concurrent
// use once registration is complete. Do not register handlers after the
// first Send.
package mediator
