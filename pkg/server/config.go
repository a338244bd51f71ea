package server

import "log/slog"

// DefaultMaxFlushPasses bounds the render/effect passes of a single flush.
const DefaultMaxFlushPasses = 100

// SessionConfig holds configuration for a Session.
type SessionConfig struct {
	// MaxFlushPasses is the maximum number of render/effect passes Mount or
	// Flush performs before giving up with ErrFlushBudgetExceeded.
	// Default: 100.
	MaxFlushPasses int

	// Logger receives session lifecycle records.
	// Default: slog.Default().
	Logger *slog.Logger

	// OnCommit is called with the tree's HTML after every commit.
	OnCommit func(html string)
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		MaxFlushPasses: DefaultMaxFlushPasses,
		Logger:         slog.Default(),
	}
}

// Clone returns a copy of the SessionConfig.
func (c *SessionConfig) Clone() *SessionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// withDefaults returns a copy of c with zero fields set to their defaults.
func (c *SessionConfig) withDefaults() SessionConfig {
	var cfg SessionConfig
	if c != nil {
		cfg = *c
	}
	if cfg.MaxFlushPasses <= 0 {
		cfg.MaxFlushPasses = DefaultMaxFlushPasses
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}
