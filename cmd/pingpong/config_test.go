package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseConfig(nil, "test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":9080" {
			t.Errorf("Addr = %q, want %q", cfg.Addr, ":9080")
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
		}
		if cfg.Log.Pretty != nil {
			t.Error("Log.Pretty should be unset")
		}
		if cfg.Tracing.Enabled {
			t.Error("tracing should be disabled by default")
		}
	})

	t.Run("full", func(t *testing.T) {
		data := []byte("addr: :8080\nlog:\n  level: debug\n  pretty: false\ntracing:\n  enabled: true\n")
		cfg, err := ParseConfig(data, "test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":8080" {
			t.Errorf("Addr = %q", cfg.Addr)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %q", cfg.Log.Level)
		}
		if cfg.Log.Pretty == nil || *cfg.Log.Pretty {
			t.Error("Log.Pretty should be false")
		}
		if !cfg.Tracing.Enabled {
			t.Error("tracing should be enabled")
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		if _, err := ParseConfig([]byte("log:\n  level: loud\n"), "test"); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("rejects invalid yaml", func(t *testing.T) {
		if _, err := ParseConfig([]byte("addr: [\n"), "test"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pingpong.yaml")
	if err := os.WriteFile(path, []byte("addr: :7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q", cfg.Addr)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewLogger(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cfg, _ := ParseConfig([]byte("log:\n  level: warn\n"), "test")
	log, err := newLogger(cfg, f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log.GetLevel() != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", log.GetLevel())
	}
}

func TestNewTracerProvider(t *testing.T) {
	cfg, _ := ParseConfig([]byte("tracing:\n  enabled: true\n"), "test")
	tp, cleanup, err := NewTracerProvider(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cleanup()
	if tp == nil {
		t.Fatal("nil tracer provider")
	}
}
