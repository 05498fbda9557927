package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NewLogger builds the process logger. Output is human readable when stdout
// is a terminal unless log.pretty says otherwise.
func NewLogger(cfg *Config) (zerolog.Logger, error) {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *Config, out *os.File) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	pretty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	if cfg.Log.Pretty != nil {
		pretty = *cfg.Log.Pretty
	}

	var w io.Writer = out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// NewTracerProvider exports spans to stdout when tracing is enabled. The
// cleanup flushes pending spans.
func NewTracerProvider(cfg *Config) (trace.TracerProvider, func(), error) {
	if !cfg.Tracing.Enabled {
		return noop.NewTracerProvider(), func() {}, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	return tp, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}, nil
}
