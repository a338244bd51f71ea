package live

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/prsh/internal/config"
	"github.com/vango-dev/prsh/internal/counter"
)

func newTestServer(t *testing.T, mutate func(*config.Config), opts ...Option) (*Server, *httptest.Server) {
	t.Helper()

	cfg := config.New()
	if mutate != nil {
		mutate(cfg)
	}
	srv, err := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func postJSON(t *testing.T, url string) countResponse {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	var out countResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.Port = -5
	if _, err := NewServer(cfg, nil); err == nil {
		t.Error("NewServer accepted an invalid config")
	}
}

func TestIndex(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) { c.Store.InitialCount = 3 })

	status, body := get(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>prsh counter</title>",
		`<div id="app">`,
		"Count: 3",
		"odd",
		"new WebSocket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexReleasesSubscriptions(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	get(t, ts.URL+"/")
	if n := srv.Store().ListenerCount(); n != 0 {
		t.Errorf("ListenerCount after page render = %d, want 0", n)
	}
}

func TestActions(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/increment", 1},
		{"/increment", 2},
		{"/decrement", 1},
		{"/reset", 0},
	}
	for _, tt := range tests {
		if got := postJSON(t, ts.URL+tt.path); got.Count != tt.want {
			t.Errorf("POST %s: count = %d, want %d", tt.path, got.Count, tt.want)
		}
	}
	if srv.Store().GetState().Count != 0 {
		t.Errorf("store count = %d", srv.Store().GetState().Count)
	}
}

func TestActionFormPostRedirects(t *testing.T) {
	_, ts := newTestServer(t, nil)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Post(ts.URL+"/increment", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Errorf("status = %d, Location = %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestUnknownActionNotFound(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/double", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, nil)

	status, body := get(t, ts.URL+"/healthz")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var h healthResponse
	if err := json.Unmarshal([]byte(body), &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Sessions != 0 || h.Listeners != 0 {
		t.Errorf("health = %+v", h)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, ts := newTestServer(t, func(c *config.Config) { c.Metrics.Namespace = "livetest" }, WithRegistry(reg))

	postJSON(t, ts.URL+"/increment")

	status, body := get(t, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	for _, want := range []string{
		`livetest_dispatches_total{action="INCREMENT",status="success"} 1`,
		"livetest_listeners 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestTracingEnabled(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) { c.Tracing.Enabled = true },
		WithTracerProvider(noop.NewTracerProvider()))

	if got := postJSON(t, ts.URL+"/increment"); got.Count != 1 {
		t.Errorf("count = %d, want 1", got.Count)
	}
}

func TestMetricsDisabled(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) { c.Metrics.Enabled = false })

	if status, _ := get(t, ts.URL+"/metrics"); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readHTML(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.TextMessage {
		t.Fatalf("message type = %d, want text", kind)
	}
	return string(data)
}

// readUntil reads commits until one contains every string in want. A
// dispatch can produce more than one commit when the connection flushes
// between listeners.
func readUntil(t *testing.T, conn *websocket.Conn, want ...string) string {
	t.Helper()
next:
	for {
		html := readHTML(t, conn)
		for _, w := range want {
			if !strings.Contains(html, w) {
				continue next
			}
		}
		return html
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWebSocketPushesCommits(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	conn := dial(t, ts)
	defer conn.Close()

	if html := readHTML(t, conn); !strings.Contains(html, "Count: 0") {
		t.Fatalf("initial commit = %q", html)
	}
	waitFor(t, "subscriptions", func() bool { return srv.Store().ListenerCount() == 2 })

	postJSON(t, ts.URL+"/increment")
	readUntil(t, conn, "Count: 1", "odd")
}

func TestWebSocketClientActions(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	conn := dial(t, ts)
	defer conn.Close()
	readHTML(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("decrement")); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, "Count: -1")
	if got := srv.Store().GetState(); got != (counter.State{Count: -1}) {
		t.Errorf("state = %+v", got)
	}
}

// panicOnce subscribes a listener to s that panics on its first call.
func panicOnce(srv *Server) func() {
	var fired atomic.Bool
	return srv.Store().Subscribe(func() {
		if fired.CompareAndSwap(false, true) {
			panic("listener failed")
		}
	})
}

func TestWebSocketSurvivesDispatchPanic(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	conn := dial(t, ts)
	defer conn.Close()
	readHTML(t, conn)
	waitFor(t, "subscriptions", func() bool { return srv.Store().ListenerCount() == 2 })

	unsubscribe := panicOnce(srv)
	defer unsubscribe()

	for i := 0; i < 2; i++ {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("increment")); err != nil {
			t.Fatal(err)
		}
	}
	readUntil(t, conn, "Count: 2")

	if status, _ := get(t, ts.URL+"/healthz"); status != http.StatusOK {
		t.Errorf("healthz status = %d after a dispatch panic", status)
	}
}

func TestActionDispatchPanicIsServerError(t *testing.T) {
	srv, ts := newTestServer(t, nil)
	unsubscribe := panicOnce(srv)
	defer unsubscribe()

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/increment", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError || !strings.Contains(string(body), "E011") {
		t.Errorf("status = %d, body = %q; want 500 with E011", resp.StatusCode, body)
	}
	if got := postJSON(t, ts.URL+"/increment"); got.Count != 2 {
		t.Errorf("count = %d, want 2", got.Count)
	}
}

func TestWebSocketSessionsAreIndependent(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	a, b := dial(t, ts), dial(t, ts)
	defer a.Close()
	defer b.Close()
	readHTML(t, a)
	readHTML(t, b)

	waitFor(t, "two sessions", func() bool {
		return srv.SessionCount() == 2 && srv.Store().ListenerCount() == 4
	})

	postJSON(t, ts.URL+"/increment")
	for _, conn := range []*websocket.Conn{a, b} {
		readUntil(t, conn, "Count: 1")
	}
}

func TestWebSocketDisconnectUnsubscribes(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	conn := dial(t, ts)
	readHTML(t, conn)
	conn.Close()

	waitFor(t, "session cleanup", func() bool {
		return srv.SessionCount() == 0 && srv.Store().ListenerCount() == 0
	})
}

func TestCloseEndsSessions(t *testing.T) {
	srv, ts := newTestServer(t, nil)

	conn := dial(t, ts)
	defer conn.Close()
	readHTML(t, conn)

	srv.Close()
	waitFor(t, "sessions to end", func() bool {
		return srv.SessionCount() == 0 && srv.Store().ListenerCount() == 0
	})
}
