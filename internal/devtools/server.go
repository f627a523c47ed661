package devtools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/renderstate/internal/config"
	"github.com/vango-dev/renderstate/internal/errors"
	"github.com/vango-dev/renderstate/pkg/store"
)

// Server is the read-only inspector for one store.
type Server struct {
	store    *store.Store
	config   config.Devtools
	logger   *slog.Logger
	gatherer prometheus.Gatherer

	hub         *Hub
	router      chi.Router
	unsubscribe func()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves g on /metrics. Without it /metrics is not mounted.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates an inspector over st. The inspector only reads from st.
func New(st *store.Store, cfg config.Devtools, opts ...Option) *Server {
	s := &Server{store: st, config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.hub = NewHub(st, cfg.AllowedOrigins, s.logger)
	s.unsubscribe = st.Subscribe(s.hub.Notify)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	})
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/snapshot/{key}", s.handleRecord)
	r.Get("/ws", s.hub.HandleWebSocket)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("devtools request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := store.EncodeSnapshot(w, s.store.Snapshot()); err != nil {
		s.logger.Warn("devtools snapshot failed", errors.FromError(err, "R021").Attr())
	}
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	w.Header().Set("Content-Type", "application/json")

	rec, ok := s.store.Get(key)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, errors.New("R023").WithDetail("No record for key "+key).FormatJSON())
		return
	}
	json.NewEncoder(w).Encode(rec)
}

// Handler returns the inspector's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the change stream hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Serve listens on addr and serves until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.New("R041").Wrap(err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("devtools listening",
		slog.String("addr", ln.Addr().String()),
		slog.String("store", s.store.Name()))

	select {
	case err := <-errCh:
		s.Close()
		if err != nil && err != http.ErrServerClosed {
			return errors.New("R041").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New("R041").Wrap(err)
	}
	return nil
}

// Close detaches from the store and disconnects all clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.Close()
}
