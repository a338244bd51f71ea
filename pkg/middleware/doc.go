// Package middleware provides store middleware for logging, metrics and
// tracing.
//
// Every constructor is generic over the store's state and action types and
// returns a store.Middleware:
//
//	s := store.New(reducer, initial, store.WithMiddleware(
//	    middleware.Logger[State, Action](logger),
//	    middleware.Prometheus[State, Action](middleware.WithNamespace("myapp")),
//	    middleware.OpenTelemetry[State, Action](),
//	))
//
// # Prometheus Metrics
//
// Prometheus collects:
//   - prsh_dispatches_total: dispatched actions by action type and status
//   - prsh_dispatch_duration_seconds: dispatch duration by action type
//   - prsh_dispatch_errors_total: failed dispatches by action type and error code
//
// ListenerGauge adds prsh_listeners, the number of store subscribers.
//
//	middleware.ListenerGauge(s)
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// OpenTelemetry starts one span per dispatch, named after the action type.
// The tracer comes from the global provider unless WithTracerProvider is
// given.
package middleware
