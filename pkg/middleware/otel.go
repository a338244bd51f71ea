package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/prsh/pkg/store"
)

const defaultTracerName = "prsh"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "prsh").
	TracerName string

	// TracerProvider provides the tracer (default: otel.GetTracerProvider()).
	TracerProvider trace.TracerProvider

	// Filter determines which actions to trace by action type.
	// If nil, all actions are traced.
	Filter func(actionType string) bool
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithActionFilter sets a filter deciding which action types are traced.
func WithActionFilter(filter func(actionType string) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// OpenTelemetry creates middleware that wraps every dispatch in a span named
// "store.dispatch <action type>". Failed dispatches record the error and set
// an error status.
//
// Configure the global provider in main() before creating the store, or pass
// one with WithTracerProvider:
//
//	otel.SetTracerProvider(tp)
func OpenTelemetry[S, A any](opts ...OTelOption) store.Middleware[S, A] {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	tracer := config.TracerProvider.Tracer(config.TracerName)

	return func(api store.API[S, A]) func(store.DispatchFunc[A]) store.DispatchFunc[A] {
		return func(next store.DispatchFunc[A]) store.DispatchFunc[A] {
			return func(action A) error {
				actionType := store.ActionType(action)
				if config.Filter != nil && !config.Filter(actionType) {
					return next(action)
				}

				_, span := tracer.Start(
					context.Background(),
					fmt.Sprintf("store.dispatch %s", actionType),
					trace.WithSpanKind(trace.SpanKindInternal),
					trace.WithAttributes(attribute.String("prsh.action.type", actionType)),
				)
				defer span.End()

				err := next(action)
				if err != nil {
					span.RecordError(err)
					span.SetStatus(codes.Error, err.Error())
				} else {
					span.SetStatus(codes.Ok, "")
				}
				return err
			}
		}
	}
}
