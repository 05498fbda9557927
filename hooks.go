package mediator

import (
	"context"
	"time"
)

// OnDispatchFunc is called after a handler has been resolved and constructed,
// just before it runs. Use this to enrich the context with logging fields or
// trace spans. The returned context is passed to the handler; it must derive
// from ctx so that cancellation still reaches the handler.
type OnDispatchFunc func(ctx context.Context, d Descriptor) context.Context

// OnSuccessFunc is called after the handler completes successfully.
type OnSuccessFunc func(ctx context.Context, d Descriptor, duration time.Duration)

// OnFailureFunc is called after the handler returns an error.
type OnFailureFunc func(ctx context.Context, d Descriptor, err error, duration time.Duration)

// OnNoHandlerFunc is called when no binding serves the request.
type OnNoHandlerFunc func(ctx context.Context, d Descriptor, err error)

// OnResolveErrorFunc is called when a handler instance cannot be constructed.
type OnResolveErrorFunc func(ctx context.Context, d Descriptor, err error)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch     []OnDispatchFunc
	onSuccess      []OnSuccessFunc
	onFailure      []OnFailureFunc
	onNoHandler    []OnNoHandlerFunc
	onResolveError []OnResolveErrorFunc
	observers      []any
}

// Option configures a Mediator.
type Option func(*Mediator)

// WithOnDispatch adds a hook called just before the handler executes.
// Multiple hooks are called in order, with context chaining through each.
//
// Example:
//
//	mediator.WithOnDispatch(func(ctx context.Context, d mediator.Descriptor) context.Context {
//	    return logger.With().Str("shape", string(d.Shape)).Logger().WithContext(ctx)
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(m *Mediator) {
		m.hooks.onDispatch = append(m.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after the handler completes successfully.
// Multiple hooks are called in order.
//
// Example:
//
//	mediator.WithOnSuccess(func(ctx context.Context, d mediator.Descriptor, dur time.Duration) {
//	    metrics.Timing("mediator.success", dur, "shape:"+string(d.Shape))
//	})
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(m *Mediator) {
		m.hooks.onSuccess = append(m.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after the handler fails. The error is
// still returned to the caller unchanged.
// Multiple hooks are called in order.
func WithOnFailure(fn OnFailureFunc) Option {
	return func(m *Mediator) {
		m.hooks.onFailure = append(m.hooks.onFailure, fn)
	}
}

// WithOnNoHandler adds a hook called when no handler is bound for a request.
// Multiple hooks are called in order.
func WithOnNoHandler(fn OnNoHandlerFunc) Option {
	return func(m *Mediator) {
		m.hooks.onNoHandler = append(m.hooks.onNoHandler, fn)
	}
}

// WithOnResolveError adds a hook called when a bound handler cannot be
// constructed. Multiple hooks are called in order.
func WithOnResolveError(fn OnResolveErrorFunc) Option {
	return func(m *Mediator) {
		m.hooks.onResolveError = append(m.hooks.onResolveError, fn)
	}
}

// WithObserver adds an observer implementing any of OnDispatchHook,
// OnSuccessHook, OnFailureHook, OnNoHandlerHook and OnResolveErrorHook.
// Observers run after the function hooks, in the order they were added.
//
// Example:
//
//	m := mediator.New(reg,
//	    mediator.WithObserver(logging.New(log.Logger)),
//	    mediator.WithObserver(tracing.New(otel.GetTracerProvider())),
//	)
func WithObserver(o any) Option {
	return func(m *Mediator) {
		m.hooks.observers = append(m.hooks.observers, o)
	}
}

// OnDispatchHook is an optional observer interface. See OnDispatchFunc.
type OnDispatchHook interface {
	OnDispatch(ctx context.Context, d Descriptor) context.Context
}

// OnSuccessHook is an optional observer interface. See OnSuccessFunc.
type OnSuccessHook interface {
	OnSuccess(ctx context.Context, d Descriptor, duration time.Duration)
}

// OnFailureHook is an optional observer interface. See OnFailureFunc.
type OnFailureHook interface {
	OnFailure(ctx context.Context, d Descriptor, err error, duration time.Duration)
}

// OnNoHandlerHook is an optional observer interface. See OnNoHandlerFunc.
type OnNoHandlerHook interface {
	OnNoHandler(ctx context.Context, d Descriptor, err error)
}

// OnResolveErrorHook is an optional observer interface. See
// OnResolveErrorFunc.
type OnResolveErrorHook interface {
	OnResolveError(ctx context.Context, d Descriptor, err error)
}

// callOnDispatch calls global and observer OnDispatch hooks.
func (h *hooks) callOnDispatch(ctx context.Context, d Descriptor) context.Context {
	for _, fn := range h.onDispatch {
		ctx = fn(ctx, d)
	}
	for _, o := range h.observers {
		if oh, ok := o.(OnDispatchHook); ok {
			ctx = oh.OnDispatch(ctx, d)
		}
	}
	return ctx
}

// callOnSuccess calls global and observer OnSuccess hooks.
func (h *hooks) callOnSuccess(ctx context.Context, d Descriptor, duration time.Duration) {
	for _, fn := range h.onSuccess {
		fn(ctx, d, duration)
	}
	for _, o := range h.observers {
		if oh, ok := o.(OnSuccessHook); ok {
			oh.OnSuccess(ctx, d, duration)
		}
	}
}

// callOnFailure calls global and observer OnFailure hooks.
func (h *hooks) callOnFailure(ctx context.Context, d Descriptor, err error, duration time.Duration) {
	for _, fn := range h.onFailure {
		fn(ctx, d, err, duration)
	}
	for _, o := range h.observers {
		if oh, ok := o.(OnFailureHook); ok {
			oh.OnFailure(ctx, d, err, duration)
		}
	}
}

// callOnNoHandler calls global and observer OnNoHandler hooks.
func (h *hooks) callOnNoHandler(ctx context.Context, d Descriptor, err error) {
	for _, fn := range h.onNoHandler {
		fn(ctx, d, err)
	}
	for _, o := range h.observers {
		if oh, ok := o.(OnNoHandlerHook); ok {
			oh.OnNoHandler(ctx, d, err)
		}
	}
}

// callOnResolveError calls global and observer OnResolveError hooks.
func (h *hooks) callOnResolveError(ctx context.Context, d Descriptor, err error) {
	for _, fn := range h.onResolveError {
		fn(ctx, d, err)
	}
	for _, o := range h.observers {
		if oh, ok := o.(OnResolveErrorHook); ok {
			oh.OnResolveError(ctx, d, err)
		}
	}
}
