// Command pingpong serves the sample requests over HTTP:
//
//	pingpong -config pingpong.yaml
//	curl -d '{"request": "pingpong:ping", "payload": {"message": "Ping"}}' localhost:9080/send
package main

import (
	"flag"
	"net/http"

	"github.com/rs/zerolog/log"
)

func run(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}

	server, cleanup, err := initServer(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server.log.Info().Str("addr", cfg.Addr).Msg("listening")
	return http.ListenAndServe(cfg.Addr, server.Handler())
}

func main() {
	path := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*path); err != nil {
		log.Fatal().Err(err).Msg("pingpong stopped")
	}
}
