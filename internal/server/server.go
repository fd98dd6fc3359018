package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ytget/yt-audio/internal/download"
	"github.com/ytget/yt-audio/internal/extractor"
)

// Route paths
const (
	RouteIndex    = "/"
	RouteHealth   = "/health"
	RouteDownload = "/api/download"
)

// Server defaults
const (
	DefaultRequestsPerSecond = 5
	DefaultBurst             = 10
	MaxRequestBodyBytes      = 64 << 10
)

// Options configures the HTTP server
type Options struct {
	IndexFile         string
	RequestsPerSecond float64
	Burst             int
	ReadTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Server is the HTTP front of the pipeline
type Server struct {
	processor  download.Processor
	classifier *extractor.Classifier
	limiter    *rate.Limiter
	opts       Options
	logger     *zap.Logger
	router     chi.Router
}

// New creates a server and builds its router
func New(processor download.Processor, classifier *extractor.Classifier, opts Options, logger *zap.Logger) *Server {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}
	if classifier == nil {
		classifier = extractor.NewClassifier(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		processor:  processor,
		classifier: classifier,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		opts:       opts,
		logger:     logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get(RouteIndex, s.handleIndex)
	r.Get(RouteHealth, s.handleHealth)
	r.With(s.rateLimit).Post(RouteDownload, s.handleDownload)
	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: s.opts.ReadTimeout,
		ReadTimeout:       s.opts.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", s.opts.ShutdownTimeout))
	shutdownCtx := context.Background()
	if s.opts.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, s.opts.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.logger.Info("shutdown completed")
	return nil
}
