//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/bjaus/mediator/internal/pingpong"
)

func initServer(cfg *Config) (*Server, func(), error) {
	panic(wire.Build(pingpong.Set, NewLogger, NewTracerProvider, NewMediator, NewServer))
}
