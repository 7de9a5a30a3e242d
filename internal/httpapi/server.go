// Package httpapi is the thin service adapter that maps external HTTP
// requests onto Matcher calls. It owns no scoring logic of its own: every
// request becomes exactly one model.Query, handed to the Matcher, and the
// result (or absence of one) is rendered back as JSON.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/corpfinder/corpfinder/internal/model"
)

const shutdownTimeout = 5 * time.Second

// Matcher is the subset of match.Matcher the service adapter depends on.
type Matcher interface {
	Match(ctx context.Context, q model.Query) (model.MatchResult, bool, error)
}

// Server exposes /api/match, /api/bulk-match, and /api/process-csv over
// HTTP, plus the ambient /healthz, /readyz, and /metrics endpoints.
type Server struct {
	matcher Matcher
	logger  *zerolog.Logger
	port    int
	ready   atomic.Bool
}

// New builds a Server. Call SetReady(true) once the backing index is
// confirmed reachable.
func New(matcher Matcher, port int, logger *zerolog.Logger) *Server {
	return &Server{matcher: matcher, port: port, logger: logger}
}

// SetReady marks the server ready (or not) for the /readyz probe.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Start runs the HTTP server until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/match", s.handleMatch)
	mux.HandleFunc("/api/bulk-match", s.handleBulkMatch)
	mux.HandleFunc("/api/process-csv", s.handleProcessCSV)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleReadyz)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx) //nolint:errcheck // best-effort shutdown
	}()

	s.logger.Info().Int("port", s.port).Msg("match server starting")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("httpapi: listen and serve: %w", err)
	}

	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok")) //nolint:errcheck // best-effort write
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok")) //nolint:errcheck // best-effort write
}
