package store

import "log/slog"

// Option configures a Store.
type Option[S, A any] func(*options[S, A])

type options[S, A any] struct {
	middleware []Middleware[S, A]
	logger     *slog.Logger
}

// WithMiddleware appends middleware to the dispatch chain.
func WithMiddleware[S, A any](mw ...Middleware[S, A]) Option[S, A] {
	return func(o *options[S, A]) {
		o.middleware = append(o.middleware, mw...)
	}
}

// WithLogger sets the logger for store lifecycle records.
// Defaults to slog.Default().
func WithLogger[S, A any](logger *slog.Logger) Option[S, A] {
	return func(o *options[S, A]) {
		o.logger = logger
	}
}
