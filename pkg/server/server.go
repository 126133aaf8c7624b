// Package server exposes the overlay engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/histogauss/pkg/observability"
)

// Routes.
const (
	OverlayPath = "/v1/overlay"
	HealthPath  = "/healthz"
	ReadyPath   = "/readyz"
	MetricsPath = "/metrics"
)

const (
	defaultMaxBodyBytes = 8_000_000
	shutdownGrace       = 10 * time.Second
)

// ErrShuttingDown is reported by the readiness check once shutdown starts.
var ErrShuttingDown = errors.New("server is shutting down")

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MaxBodyBytes caps request bodies. Zero selects 8 MB.
	MaxBodyBytes int64

	// DefaultBinWidth is used when a request carries no bin_width.
	DefaultBinWidth float64

	// Version is stamped into every report.
	Version string
}

// Server serves POST /v1/overlay plus health and metrics endpoints.
type Server struct {
	opts     Options
	logger   *slog.Logger
	tracer   trace.Tracer
	red      *observability.REDMetrics
	engine   *observability.EngineMetrics
	metrics  http.Handler
	draining atomic.Bool
}

// New builds a Server on the given providers. Zero-valued providers fall
// back to no-op telemetry and the default logger.
func New(opts Options, providers observability.Providers) (*Server, error) {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	srv := &Server{
		opts:    opts,
		logger:  providers.Logger,
		tracer:  providers.Tracer,
		metrics: providers.MetricsHandler,
	}

	if srv.logger == nil {
		srv.logger = slog.Default()
	}

	if srv.tracer == nil {
		srv.tracer = noop.NewTracerProvider().Tracer("histogauss")
	}

	if providers.Meter != nil {
		red, err := observability.NewREDMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("create RED metrics: %w", err)
		}

		engine, err := observability.NewEngineMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("create engine metrics: %w", err)
		}

		srv.red, srv.engine = red, engine
	}

	return srv, nil
}

// Handler returns the routed handler. API routes are traced and counted;
// probes and the scrape endpoint are not.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc(OverlayPath, s.handleOverlay)

	mux := http.NewServeMux()
	mux.Handle(OverlayPath, observability.HTTPMiddleware(s.tracer, s.red, api))
	mux.Handle(HealthPath, observability.HealthHandler())
	mux.Handle(ReadyPath, observability.ReadyHandler(s.ready))

	if s.metrics != nil {
		mux.Handle(MetricsPath, s.metrics)
	}

	return mux
}

// ListenAndServe listens on Options.Addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- httpServer.Serve(ln)
	}()

	s.logger.InfoContext(ctx, "server listening", "addr", ln.Addr().String())

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.draining.Store(true)
	s.logger.InfoContext(ctx, "server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	err = <-serveErr
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}

	return nil
}

func (s *Server) ready(_ context.Context) error {
	if s.draining.Load() {
		return ErrShuttingDown
	}

	return nil
}
