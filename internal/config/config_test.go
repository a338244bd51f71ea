package config

import (
	"bytes"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/prsh/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Session.MaxFlushPasses != DefaultMaxFlushPasses {
		t.Errorf("Session.MaxFlushPasses = %d, want %d", cfg.Session.MaxFlushPasses, DefaultMaxFlushPasses)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics = %+v, want enabled at %s", cfg.Metrics, DefaultMetricsPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("missing config error should wrap os.ErrNotExist: %v", err)
	}
	if Exists(tmpDir) {
		t.Error("Exists = true before the file is written")
	}

	configJSON := `{
  "server": {
    "host": "0.0.0.0",
    "port": 9090
  },
  "store": {
    "initialCount": 5
  },
  "metrics": {
    "enabled": false
  },
  "log": {
    "level": "debug",
    "format": "json"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if got, want := cfg.Address(), "0.0.0.0:9090"; got != want {
		t.Errorf("Address() = %q, want %q", got, want)
	}
	if cfg.Store.InitialCount != 5 {
		t.Errorf("Store.InitialCount = %d, want 5", cfg.Store.InitialCount)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should be false")
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q, want default %q", cfg.Metrics.Path, DefaultMetricsPath)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Server.ShutdownTimeout = %q, want default", cfg.Server.ShutdownTimeout)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want debug", level)
	}
	if !Exists(tmpDir) {
		t.Error("Exists = false after the file is written")
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"server": `), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	var pe *errors.PrshError
	if !stderrors.As(err, &pe) || pe.Code != "E200" {
		t.Fatalf("LoadFile error = %v, want E200", err)
	}
	if !strings.Contains(pe.Detail, "Failed to parse") {
		t.Errorf("Detail = %q", pe.Detail)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		detail string
	}{
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"negative port", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"bad shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = "soon" }, "server.shutdownTimeout"},
		{"negative flush passes", func(c *Config) { c.Session.MaxFlushPasses = -3 }, "session.maxFlushPasses"},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)

			err := cfg.Validate()
			var pe *errors.PrshError
			if !stderrors.As(err, &pe) || pe.Code != "E201" {
				t.Fatalf("Validate() = %v, want E201", err)
			}
			if !strings.Contains(pe.Detail, tt.detail) {
				t.Errorf("Detail = %q, want it to mention %q", pe.Detail, tt.detail)
			}
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(`{"server": {"port": 99999}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "E201") {
		t.Errorf("LoadFile error = %v, want E201", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := New()
	cfg.Server.Port = 4000
	cfg.Tracing.Enabled = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Server.Port != 4000 || !loaded.Tracing.Enabled {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestShutdownTimeout(t *testing.T) {
	cfg := New()
	cfg.Server.ShutdownTimeout = "250ms"

	d, err := cfg.ShutdownTimeout()
	if err != nil || d != 250*time.Millisecond {
		t.Errorf("ShutdownTimeout() = %v, %v", d, err)
	}
}

func TestLogger(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"text", "msg=hello"},
		{"json", `"msg":"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := New()
			cfg.Log.Format = tt.format
			cfg.Log.Level = "warn"

			logger := cfg.Logger(&buf)
			logger.Info("hidden")
			logger.Warn("hello")

			out := buf.String()
			if strings.Contains(out, "hidden") {
				t.Errorf("info record written at warn level: %s", out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %q", out, tt.want)
			}
		})
	}
}
