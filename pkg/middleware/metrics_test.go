package middleware

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	prsherrors "github.com/vango-dev/prsh/internal/errors"
	"github.com/vango-dev/prsh/pkg/store"
)

// gathered returns the metric family name from reg.
func gathered(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func labelsMatch(m *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, pair := range m.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if pair.GetValue() != want {
				return false
			}
			matched++
		}
	}
	return matched == len(labels)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	for _, m := range gathered(t, reg, name).GetMetric() {
		if labelsMatch(m, labels) {
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestPrometheusMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := store.New(testReducer, 0, store.WithMiddleware(
		Prometheus[int, testAction](WithRegistry(reg)),
		reject,
	))

	s.Dispatch(testAction{name: "add", by: 1})
	s.Dispatch(testAction{name: "add", by: 1})
	s.Dispatch(testAction{name: "bad"})

	if got := counterValue(t, reg, "prsh_dispatches_total", map[string]string{"action": "add", "status": "success"}); got != 2 {
		t.Errorf("success dispatches = %v, want 2", got)
	}
	if got := counterValue(t, reg, "prsh_dispatches_total", map[string]string{"action": "bad", "status": "error"}); got != 1 {
		t.Errorf("error dispatches = %v, want 1", got)
	}
	if got := counterValue(t, reg, "prsh_dispatch_errors_total", map[string]string{"action": "bad", "code": "internal"}); got != 1 {
		t.Errorf("dispatch errors = %v, want 1", got)
	}

	var samples uint64
	for _, m := range gathered(t, reg, "prsh_dispatch_duration_seconds").GetMetric() {
		samples += m.GetHistogram().GetSampleCount()
	}
	if samples != 3 {
		t.Errorf("duration samples = %d, want 3", samples)
	}
}

func TestPrometheusMiddlewareSharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	opts := []MetricsOption{WithRegistry(reg), WithNamespace("app"), WithSubsystem("counter")}

	a := store.New(testReducer, 0, store.WithMiddleware(Prometheus[int, testAction](opts...)))
	b := store.New(testReducer, 0, store.WithMiddleware(Prometheus[int, testAction](opts...)))

	a.Dispatch(testAction{name: "add"})
	b.Dispatch(testAction{name: "add"})

	if got := counterValue(t, reg, "app_counter_dispatches_total", map[string]string{"action": "add"}); got != 2 {
		t.Errorf("dispatches = %v, want 2", got)
	}
}

func TestPrometheusMiddlewareConstLabelsPerStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	middlewareFor := func(name string) store.Middleware[int, testAction] {
		return Prometheus[int, testAction](
			WithRegistry(reg),
			WithNamespace("labeled"),
			WithConstLabels(prometheus.Labels{"store": name}),
		)
	}

	a := store.New(testReducer, 0, store.WithMiddleware(middlewareFor("a")))
	b := store.New(testReducer, 0, store.WithMiddleware(middlewareFor("b")))

	a.Dispatch(testAction{name: "add"})
	b.Dispatch(testAction{name: "add"})
	b.Dispatch(testAction{name: "add"})

	if got := counterValue(t, reg, "labeled_dispatches_total", map[string]string{"store": "a", "action": "add"}); got != 1 {
		t.Errorf("store a dispatches = %v, want 1", got)
	}
	if got := counterValue(t, reg, "labeled_dispatches_total", map[string]string{"store": "b", "action": "add"}); got != 2 {
		t.Errorf("store b dispatches = %v, want 2", got)
	}
}

func TestLabelsKeyIsOrderIndependent(t *testing.T) {
	a := labelsKey(prometheus.Labels{"x": "1", "y": "2"})
	b := labelsKey(prometheus.Labels{"y": "2", "x": "1"})
	if a != b || a != "x=1,y=2" {
		t.Errorf("labelsKey = %q and %q, want both %q", a, b, "x=1,y=2")
	}
	if labelsKey(nil) != "" {
		t.Errorf("labelsKey(nil) = %q, want empty", labelsKey(nil))
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("plain"), "internal"},
		{prsherrors.New("E101"), "E101"},
		{prsherrors.Newf(prsherrors.CategoryStore, "no code"), "internal"},
	}
	for _, tt := range tests {
		if got := errorCode(tt.err); got != tt.want {
			t.Errorf("errorCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestReducerDispatchErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()

	var s *store.Store[int, testAction]
	s = store.New(func(state int, action testAction) int {
		if action.name == "nested" {
			_ = s.Dispatch(testAction{name: "inner"})
		}
		return state
	}, 0, store.WithMiddleware(Prometheus[int, testAction](WithRegistry(reg))))

	s.Dispatch(testAction{name: "nested"})

	if got := counterValue(t, reg, "prsh_dispatch_errors_total", map[string]string{"action": "inner", "code": "E101"}); got != 1 {
		t.Errorf("E101 errors = %v, want 1", got)
	}
}

func TestListenerGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := store.New(testReducer, 0)
	gauge := ListenerGauge(s, WithRegistry(reg), WithConstLabels(prometheus.Labels{"store": "counter"}))

	read := func() float64 {
		var m dto.Metric
		if err := gauge.Write(&m); err != nil {
			t.Fatalf("gauge Write() error: %v", err)
		}
		return m.GetGauge().GetValue()
	}

	if read() != 0 {
		t.Errorf("gauge = %v, want 0", read())
	}
	unsubscribe := s.Subscribe(func() {})
	s.Subscribe(func() {})
	if read() != 2 {
		t.Errorf("gauge = %v, want 2", read())
	}
	unsubscribe()
	if read() != 1 {
		t.Errorf("gauge = %v, want 1", read())
	}

	family := gathered(t, reg, "prsh_listeners")
	if got := family.GetMetric()[0].GetLabel()[0].GetValue(); got != "counter" {
		t.Errorf("const label = %q, want counter", got)
	}
}
