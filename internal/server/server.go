// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /api/v1/generate        file list → positioned graph
//	POST /api/v1/relayout        graph → positioned graph
//	POST /api/v1/relayout/batch  many graphs → positioned graphs
//	POST /api/v1/layout          raw engine input → layout result
//	GET  /healthz
//	GET  /version
//	GET  /metrics                when a metrics handler is configured
//
// Errors are returned as {"error": {"code", "message", "requestId"}} with
// INVALID_* codes mapped to 400 and RATE_LIMITED to 429.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// Options tunes the server. Zero values select the defaults below.
type Options struct {
	// MaxBodyBytes caps request bodies. Default 4 MiB.
	MaxBodyBytes int64
	// RateLimit is the sustained request rate per second for /api routes.
	// Zero disables limiting.
	RateLimit float64
	// Burst is the limiter bucket size. Default is twice RateLimit.
	Burst int
	// BatchLimit bounds concurrency of batch re-layouts.
	BatchLimit int
	// Defaults fill options a request leaves empty.
	Defaults pipeline.Options
	// Metrics is served at /metrics when set.
	Metrics http.Handler

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const defaultMaxBodyBytes = 4 << 20

// Server handles API requests with a shared pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	opts     Options
	limiter  *rate.Limiter
	validate *validator.Validate
}

// New creates a server. A nil logger selects log.Default().
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.BatchLimit <= 0 {
		opts.BatchLimit = pipeline.DefaultBatchLimit
	}
	s := &Server{
		runner:   runner,
		logger:   logger,
		opts:     opts,
		validate: newValidator(),
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = max(1, int(2*opts.RateLimit))
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Handler returns the routed handler with middleware attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/generate", s.handleGenerate)
		r.Post("/relayout", s.handleRelayout)
		r.Post("/relayout/batch", s.handleRelayoutBatch)
		r.Post("/layout", s.handleLayout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errMethodNotAllowed(r.Method))
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then drains in-flight
// requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.opts.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
