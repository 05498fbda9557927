// Package logging reports mediator dispatches through zerolog.
//
//	m := mediator.New(reg, mediator.WithObserver(logging.New(log.Logger)))
//
// Each dispatch gets a ULID dispatch_id. The child logger carrying it is
// attached to the handler's context, so handlers can log with
// zerolog.Ctx(ctx) and share the id.
package logging

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/bjaus/mediator"
)

// Observer implements the mediator hook interfaces.
type Observer struct {
	log zerolog.Logger
}

var (
	_ mediator.OnDispatchHook     = (*Observer)(nil)
	_ mediator.OnSuccessHook      = (*Observer)(nil)
	_ mediator.OnFailureHook      = (*Observer)(nil)
	_ mediator.OnNoHandlerHook    = (*Observer)(nil)
	_ mediator.OnResolveErrorHook = (*Observer)(nil)
)

// New creates an Observer logging to l.
func New(l zerolog.Logger) *Observer {
	return &Observer{log: l}
}

// DispatchID returns the id assigned to the dispatch running with ctx, or ""
// outside of a handler.
func DispatchID(ctx context.Context) string {
	id, _ := ctx.Value(dispatchIDKey{}).(string)
	return id
}

type dispatchIDKey struct{}

func (o *Observer) OnDispatch(ctx context.Context, d mediator.Descriptor) context.Context {
	id := ulid.Make().String()
	l := o.log.With().
		Str("dispatch_id", id).
		Str("shape", string(d.Shape)).
		Stringer("response", d.Response).
		Logger()

	return l.WithContext(context.WithValue(ctx, dispatchIDKey{}, id))
}

func (o *Observer) OnSuccess(ctx context.Context, d mediator.Descriptor, duration time.Duration) {
	o.logger(ctx).Debug().Dur("duration", duration).Msg("request handled")
}

func (o *Observer) OnFailure(ctx context.Context, d mediator.Descriptor, err error, duration time.Duration) {
	o.logger(ctx).Error().Err(err).Dur("duration", duration).Msg("handler failed")
}

func (o *Observer) OnNoHandler(ctx context.Context, d mediator.Descriptor, err error) {
	o.log.Warn().
		Str("shape", string(d.Shape)).
		Stringer("descriptor", d).
		Msg("no handler")
}

func (o *Observer) OnResolveError(ctx context.Context, d mediator.Descriptor, err error) {
	o.log.Error().
		Err(err).
		Str("shape", string(d.Shape)).
		Stringer("descriptor", d).
		Msg("handler construction failed")
}

// logger returns the context logger, including fields added to it by
// observers that ran after OnDispatch.
func (o *Observer) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &o.log
}
