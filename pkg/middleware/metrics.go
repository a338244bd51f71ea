package middleware

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	prsherrors "github.com/vango-dev/prsh/internal/errors"
	"github.com/vango-dev/prsh/pkg/store"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "prsh").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for dispatch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets. Middleware sharing a registry,
// namespace, subsystem and const labels shares one histogram, built with the
// buckets of the first call.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "prsh",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

func newMetricsConfig(opts []MetricsOption) MetricsConfig {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return config
}

// metrics holds the dispatch metrics registered on one registry.
type metrics struct {
	dispatchesTotal  *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	dispatchErrors   *prometheus.CounterVec
}

// metricsKey identifies a metric set. Registering the same names and const
// labels twice on one registry panics, so stores sharing all of them share
// the metric set, and the buckets of the first registration win. Stores with
// different const labels get their own series.
type metricsKey struct {
	registry    prometheus.Registerer
	namespace   string
	subsystem   string
	constLabels string
}

// labelsKey renders labels in a stable order.
func labelsKey(labels prometheus.Labels) string {
	pairs := make([]string, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

var (
	registeredMetrics   = map[metricsKey]*metrics{}
	registeredMetricsMu sync.Mutex
)

// metricsFor returns the metric set for config, registering it on first use.
func metricsFor(config MetricsConfig) *metrics {
	key := metricsKey{config.Registry, config.Namespace, config.Subsystem, labelsKey(config.ConstLabels)}

	registeredMetricsMu.Lock()
	defer registeredMetricsMu.Unlock()

	if m, ok := registeredMetrics[key]; ok {
		return m
	}
	m := initMetrics(config)
	registeredMetrics[key] = m
	return m
}

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		dispatchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatches_total",
			Help:        "Total number of dispatched store actions",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "status"}),

		dispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_duration_seconds",
			Help:        "Dispatch duration in seconds, reducer and listeners included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"action"}),

		dispatchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dispatch_errors_total",
			Help:        "Total number of failed dispatches",
			ConstLabels: config.ConstLabels,
		}, []string{"action", "code"}),
	}
}

// Prometheus creates middleware that records dispatch counts, durations and
// errors.
//
// Example:
//
//	s := store.New(reducer, initial, store.WithMiddleware(
//	    middleware.Prometheus[State, Action](
//	        middleware.WithNamespace("myapp"),
//	    ),
//	))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus[S, A any](opts ...MetricsOption) store.Middleware[S, A] {
	m := metricsFor(newMetricsConfig(opts))

	return func(api store.API[S, A]) func(store.DispatchFunc[A]) store.DispatchFunc[A] {
		return func(next store.DispatchFunc[A]) store.DispatchFunc[A] {
			return func(action A) error {
				actionType := store.ActionType(action)

				start := time.Now()
				err := next(action)
				m.dispatchDuration.WithLabelValues(actionType).Observe(time.Since(start).Seconds())

				status := "success"
				if err != nil {
					status = "error"
					m.dispatchErrors.WithLabelValues(actionType, errorCode(err)).Inc()
				}
				m.dispatchesTotal.WithLabelValues(actionType, status).Inc()

				return err
			}
		}
	}
}

// errorCode returns the structured error code of err, or "internal".
// Codes keep the label cardinality bounded.
func errorCode(err error) string {
	var pe *prsherrors.PrshError
	if errors.As(err, &pe) && pe.Code != "" {
		return pe.Code
	}
	return "internal"
}

// ListenerCounter reports the number of subscribers of a store.
type ListenerCounter interface {
	ListenerCount() int
}

// ListenerGauge registers a gauge that reads the listener count of s at
// scrape time. Use WithConstLabels to tell several stores apart.
func ListenerGauge(s ListenerCounter, opts ...MetricsOption) prometheus.GaugeFunc {
	config := newMetricsConfig(opts)

	return promauto.With(config.Registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "listeners",
		Help:        "Number of store listeners",
		ConstLabels: config.ConstLabels,
	}, func() float64 {
		return float64(s.ListenerCount())
	})
}
