package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the pingpong.yaml configuration.
type Config struct {
	// Addr is the listen address. Defaults to ":9080".
	Addr string `yaml:"addr"`

	Log     LogConfig     `yaml:"log"`
	Tracing TracingConfig `yaml:"tracing"`
}

type LogConfig struct {
	// Level is a zerolog level name. Defaults to "info".
	Level string `yaml:"level"`

	// Pretty forces console output on or off. When omitted, console output
	// is used if stdout is a terminal.
	Pretty *bool `yaml:"pretty,omitempty"`
}

type TracingConfig struct {
	// Enabled exports spans to stdout.
	Enabled bool `yaml:"enabled"`
}

// LoadConfig reads the configuration at path. An empty path yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return ParseConfig(nil, "defaults")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses configuration from bytes. The path argument is used
// only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":9080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate(path string) error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%s: log.level: %w", path, err)
	}
	return nil
}
