package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/prsh/internal/config"
	"github.com/vango-dev/prsh/internal/counter"
	storemw "github.com/vango-dev/prsh/pkg/middleware"
	"github.com/vango-dev/prsh/pkg/render"
	"github.com/vango-dev/prsh/pkg/server"
	"github.com/vango-dev/prsh/pkg/store"
	"github.com/vango-dev/prsh/pkg/vdom"
)

// Option configures a Server.
type Option func(*Server)

// WithRegistry sets the Prometheus registry metrics are registered on and
// served from. Default: a new registry per server.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithTracerProvider sets the tracer provider used when tracing is enabled.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracerProvider = tp
	}
}

// Server is the live counter server. It implements http.Handler.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	store          *counter.Store
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
	renderer       *render.Renderer
	router         chi.Router
	upgrader       websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*server.Session
}

// NewServer creates the shared store and the router. A nil cfg uses
// config.New(); a nil logger uses slog.Default().
func NewServer(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		renderer: render.NewRenderer(render.RendererConfig{}),
		clients:  make(map[*websocket.Conn]*server.Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.store = counter.NewStore(cfg.Store.InitialCount,
		store.WithLogger[counter.State, counter.Action](logger),
		store.WithMiddleware[counter.State, counter.Action](s.middleware()...),
	)
	if cfg.Metrics.Enabled {
		storemw.ListenerGauge(s.store,
			storemw.WithNamespace(cfg.Metrics.Namespace),
			storemw.WithRegistry(s.registry),
		)
	}

	s.router = s.routes()
	return s, nil
}

// middleware returns the store middleware chain the config asks for.
func (s *Server) middleware() []store.Middleware[counter.State, counter.Action] {
	chain := []store.Middleware[counter.State, counter.Action]{
		storemw.Logger[counter.State, counter.Action](s.logger),
	}
	if s.cfg.Metrics.Enabled {
		chain = append(chain, storemw.Prometheus[counter.State, counter.Action](
			storemw.WithNamespace(s.cfg.Metrics.Namespace),
			storemw.WithRegistry(s.registry),
		))
	}
	if s.cfg.Tracing.Enabled {
		otelOpts := []storemw.OTelOption{storemw.WithTracerName(s.cfg.Tracing.TracerName)}
		if s.tracerProvider != nil {
			otelOpts = append(otelOpts, storemw.WithTracerProvider(s.tracerProvider))
		}
		chain = append(chain, storemw.OpenTelemetry[counter.State, counter.Action](otelOpts...))
	}
	return chain
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Post("/{action:increment|decrement|reset}", s.handleAction)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Store returns the shared counter store.
func (s *Server) Store() *counter.Store {
	return s.store
}

// SessionCount returns the number of connected websocket sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close closes every websocket connection. Their sessions unmount as the
// connection handlers return.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		conn.Close()
	}
}

// requestLogger logs one record per request with slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// handleIndex renders the app in a throwaway session and serves the page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.newSession(nil)
	defer sess.Unmount()

	if err := sess.Mount(counter.App(s.store)); err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	html, err := sess.HTML()
	if err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	body := vdom.Div(vdom.ID("app"), vdom.Raw(html))
	if err := s.renderer.RenderPage(w, "prsh counter", body, clientScript); err != nil {
		s.logger.Error("write page failed", "error", err)
	}
}

// countResponse is the JSON body of action responses.
type countResponse struct {
	Count int `json:"count"`
}

// handleAction dispatches the action named by the route. Form posts are
// redirected back to the page; JSON clients get the new count.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action, ok := counter.ParseAction(chi.URLParam(r, "action"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := s.dispatch(action); err != nil {
		s.logger.Error("dispatch failed", "action", action.Type(), "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if !strings.Contains(r.Header.Get("Accept"), "application/json") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(countResponse{Count: s.store.GetState().Count})
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status    string `json:"status"`
	Count     int    `json:"count"`
	Sessions  int    `json:"sessions"`
	Listeners int    `json:"listeners"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Count:     s.store.GetState().Count,
		Sessions:  s.SessionCount(),
		Listeners: s.store.ListenerCount(),
	})
}

// newSession creates a session with the server's logger and flush budget.
func (s *Server) newSession(onCommit func(html string)) *server.Session {
	return server.NewSession(&server.SessionConfig{
		MaxFlushPasses: s.cfg.Session.MaxFlushPasses,
		Logger:         s.logger,
		OnCommit:       onCommit,
	})
}
