// Package server exposes the renderer over HTTP.
//
//	POST /api/render           document in, {pdf, pages, degraded} out
//	POST /api/render?format=pdf  document in, raw PDF out
//	GET  /api/health           health report
//
// Failures are reported as {message, details}.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/VamsiKurapati/docrender"
)

// Defaults for the HTTP boundary.
const (
	DefaultMaxBodyBytes = 32 << 20
	DefaultReadTimeout  = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
	requestIDHeader     = "X-Request-ID"
)

// Renderer is the pipeline the server drives.
type Renderer interface {
	Render(ctx context.Context, doc *docrender.Document) (*docrender.Result, error)
	Health(ctx context.Context) *docrender.HealthReport
}

// Compile-time interface check.
var _ Renderer = (*docrender.Renderer)(nil)

// Server handles render and health requests.
type Server struct {
	renderer    Renderer
	limiter     *docrender.Limiter
	logger      *slog.Logger
	maxBody     int64
	readTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLimiter bounds concurrent renders. Requests wait for a slot until
// the client goes away.
func WithLimiter(l *docrender.Limiter) Option {
	return func(s *Server) {
		if l != nil {
			s.limiter = l
		}
	}
}

// WithLogger sets the access and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes caps the request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithReadTimeout bounds reading a whole request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// New creates a server around r.
func New(r Renderer, opts ...Option) *Server {
	s := &Server{
		renderer:    r,
		logger:      slog.New(slog.DiscardHandler),
		maxBody:     DefaultMaxBodyBytes,
		readTimeout: DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = docrender.NewLimiter(docrender.ResolveLimit(0))
	}
	return s
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return s.withRequestID(mux)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully, letting in-flight renders finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.readTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String(), "workers", s.limiter.Size())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
