package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/bjaus/mediator"
	"github.com/bjaus/mediator/envelope"
	"github.com/bjaus/mediator/logging"
	"github.com/bjaus/mediator/tracing"
)

// NewMediator wires the registry to a mediator reporting through log and tp.
func NewMediator(reg *mediator.Registry, log zerolog.Logger, tp trace.TracerProvider) *mediator.Mediator {
	return mediator.New(reg,
		mediator.WithObserver(logging.New(log)),
		mediator.WithObserver(tracing.New(tp)),
	)
}

// Server exposes the mediator over HTTP.
type Server struct {
	log      zerolog.Logger
	mediator *mediator.Mediator
	registry *mediator.Registry
	catalog  *envelope.Catalog
	tp       trace.TracerProvider
}

func NewServer(log zerolog.Logger, m *mediator.Mediator, reg *mediator.Registry, catalog *envelope.Catalog, tp trace.TracerProvider) *Server {
	return &Server{log: log, mediator: m, registry: reg, catalog: catalog, tp: tp}
}

// Handler routes:
//
//	POST /send      dispatch an envelope, answer {"response": ...}
//	GET  /requests  list the accepted request names and bindings
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/send", s.send())
	r.Get("/requests", s.requests())

	return otelhttp.NewHandler(r, "pingpong", otelhttp.WithTracerProvider(s.tp))
}

type sendResponse struct {
	Response any `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type requestsResponse struct {
	Requests []string `json:"requests"`
	Closed   []string `json:"closed"`
	Open     []string `json:"open"`
}

func (s *Server) send() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			s.fail(w, r, http.StatusBadRequest, err)
			return
		}

		res, err := s.catalog.Dispatch(r.Context(), s.mediator, body)
		if err != nil {
			s.fail(w, r, statusOf(err), err)
			return
		}

		render.JSON(w, r, sendResponse{Response: res})
	}
}

func (s *Server) requests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := requestsResponse{Requests: s.catalog.Names()}
		for _, d := range s.registry.Descriptors() {
			out.Closed = append(out.Closed, d.String())
		}
		for _, shape := range s.registry.Shapes() {
			out.Open = append(out.Open, string(shape))
		}
		render.JSON(w, r, out)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("send failed")
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, envelope.ErrInvalidJSON),
		errors.Is(err, envelope.ErrMalformedEnvelope),
		errors.Is(err, envelope.ErrInvalidPayload),
		errors.Is(err, mediator.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, envelope.ErrUnknownRequest),
		errors.Is(err, mediator.ErrHandlerNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
