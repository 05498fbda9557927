// Package tracing records mediator dispatches as OpenTelemetry spans.
//
//	m := mediator.New(reg, mediator.WithObserver(tracing.New(otel.GetTracerProvider())))
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bjaus/mediator"
)

const tracerName = "github.com/bjaus/mediator"

// Attribute keys set on dispatch spans.
const (
	ShapeKey    = attribute.Key("mediator.shape")
	ResponseKey = attribute.Key("mediator.response")
	GenericKey  = attribute.Key("mediator.generic")
)

// Observer implements the mediator hook interfaces.
type Observer struct {
	tracer trace.Tracer
}

var (
	_ mediator.OnDispatchHook     = (*Observer)(nil)
	_ mediator.OnSuccessHook      = (*Observer)(nil)
	_ mediator.OnFailureHook      = (*Observer)(nil)
	_ mediator.OnNoHandlerHook    = (*Observer)(nil)
	_ mediator.OnResolveErrorHook = (*Observer)(nil)
)

// New creates an Observer using a tracer from tp.
func New(tp trace.TracerProvider) *Observer {
	return &Observer{tracer: tp.Tracer(tracerName)}
}

func attributes(d mediator.Descriptor) []attribute.KeyValue {
	return []attribute.KeyValue{
		ShapeKey.String(string(d.Shape)),
		ResponseKey.String(d.Response.String()),
		GenericKey.Bool(d.Generic()),
	}
}

// OnDispatch starts a span named "send <shape>" that the handler runs in.
func (o *Observer) OnDispatch(ctx context.Context, d mediator.Descriptor) context.Context {
	ctx, _ = o.tracer.Start(ctx, "send "+string(d.Shape),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attributes(d)...),
	)
	return ctx
}

func (o *Observer) OnSuccess(ctx context.Context, d mediator.Descriptor, duration time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.SetStatus(codes.Ok, "")
	span.End()
}

func (o *Observer) OnFailure(ctx context.Context, d mediator.Descriptor, err error, duration time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

// OnNoHandler adds an event to the caller's span; no dispatch span exists.
func (o *Observer) OnNoHandler(ctx context.Context, d mediator.Descriptor, err error) {
	trace.SpanFromContext(ctx).AddEvent("mediator.no_handler", trace.WithAttributes(attributes(d)...))
}

// OnResolveError records the construction error on the caller's span.
func (o *Observer) OnResolveError(ctx context.Context, d mediator.Descriptor, err error) {
	trace.SpanFromContext(ctx).RecordError(err, trace.WithAttributes(attributes(d)...))
}
