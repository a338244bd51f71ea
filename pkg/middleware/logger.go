package middleware

import (
	"log/slog"
	"time"

	"github.com/vango-dev/prsh/pkg/store"
)

// Logger creates middleware that logs every dispatched action.
// Successful dispatches are logged at debug level, failures at error level.
// A nil logger uses slog.Default().
func Logger[S, A any](logger *slog.Logger) store.Middleware[S, A] {
	if logger == nil {
		logger = slog.Default()
	}

	return func(api store.API[S, A]) func(store.DispatchFunc[A]) store.DispatchFunc[A] {
		return func(next store.DispatchFunc[A]) store.DispatchFunc[A] {
			return func(action A) error {
				start := time.Now()
				err := next(action)

				attrs := []any{
					"action", store.ActionType(action),
					"duration", time.Since(start),
				}
				if err != nil {
					logger.Error("dispatch failed", append(attrs, "error", err)...)
					return err
				}
				logger.Debug("action dispatched", attrs...)
				return nil
			}
		}
	}
}
