package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/prsh/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "prsh.json"

	// DefaultPort is the default live server port.
	DefaultPort = 8080

	// DefaultHost is the default live server host.
	DefaultHost = "localhost"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "10s"

	// DefaultMaxFlushPasses is the default per-flush render pass budget.
	DefaultMaxFlushPasses = 100

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace prefixes every metric name.
	DefaultNamespace = "prsh"

	// DefaultLogLevel is the default slog level name.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log handler.
	DefaultLogFormat = "text"
)

// Config represents the complete prsh.json configuration.
type Config struct {
	// Server contains the HTTP listener settings.
	Server ServerConfig `json:"server"`

	// Store contains the shared counter store settings.
	Store StoreConfig `json:"store"`

	// Session contains per-connection session settings.
	Session SessionConfig `json:"session"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ShutdownTimeout is a time.ParseDuration string, e.g. "10s".
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`
}

// StoreConfig contains the shared store settings.
type StoreConfig struct {
	// InitialCount is the counter value the store starts with.
	InitialCount int `json:"initialCount"`
}

// SessionConfig contains session settings.
type SessionConfig struct {
	// MaxFlushPasses bounds the render passes of one flush.
	MaxFlushPasses int `json:"maxFlushPasses,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Path      string `json:"path,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled"`
	TracerName string `json:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Session: SessionConfig{
			MaxFlushPasses: DefaultMaxFlushPasses,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultNamespace,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for prsh.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. The returned
// config is defaulted and validated.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		e := errors.New("E200").Wrap(err)
		if os.IsNotExist(err) {
			e = e.WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without --config to use defaults")
		}
		return nil, e
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E200").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E200").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E200").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Session.MaxFlushPasses == 0 {
		c.Session.MaxFlushPasses = DefaultMaxFlushPasses
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E201").
			WithDetail(fmt.Sprintf("server.port must be between 0 and 65535, got %d", c.Server.Port))
	}
	if _, err := c.ShutdownTimeout(); err != nil {
		return errors.New("E201").
			WithDetail("server.shutdownTimeout: " + err.Error()).
			WithSuggestion(`Use a duration such as "10s" or "500ms"`)
	}
	if c.Session.MaxFlushPasses < 0 {
		return errors.New("E201").
			WithDetail(fmt.Sprintf("session.maxFlushPasses must be positive, got %d", c.Session.MaxFlushPasses))
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E201").
			WithDetail(fmt.Sprintf("metrics.path must start with '/', got %q", c.Metrics.Path))
	}
	if _, err := c.LogLevel(); err != nil {
		return errors.New("E201").
			WithDetail("log.level: " + err.Error()).
			WithSuggestion("Use debug, info, warn or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E201").
			WithDetail(fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	return nil
}

// Address returns the listen address for the live server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout parses Server.ShutdownTimeout.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.ShutdownTimeout)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// Logger builds the slog logger described by Log, writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
