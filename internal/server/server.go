package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/RyanBlaney/dance-advisor/configs"
	"github.com/RyanBlaney/dance-advisor/internal/style"
	"github.com/RyanBlaney/dance-advisor/internal/tempo"
	"github.com/RyanBlaney/latency-benchmark-common/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TempoExtractor turns an uploaded payload into a tempo estimate
type TempoExtractor interface {
	Extract(ctx context.Context, name string, data []byte) (*tempo.Result, error)
}

// Server exposes the tempo and style pipeline over HTTP
type Server struct {
	extractor      TempoExtractor
	resolver       *style.Resolver
	config         configs.ServerConfig
	maxUploadBytes int64
	logger         logging.Logger
}

// New creates a new HTTP server
func New(extractor TempoExtractor, resolver *style.Resolver, cfg configs.ServerConfig, maxUploadBytes int64, logger logging.Logger) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("tempo extractor is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("style resolver is required")
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = configs.DefaultMaxUploadBytes
	}

	return &Server{
		extractor:      extractor,
		resolver:       resolver,
		config:         cfg,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}, nil
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/genres", s.handleGenres)
	mux.HandleFunc("POST /v1/suggest", s.handleSuggest)
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	if s.config.EnableMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return s.requestID(s.instrument(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on an existing listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.Fields{
			"addr": listener.Addr().String(),
		})
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownTimeout := s.config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
