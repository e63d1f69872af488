// Package httpx holds the HTTP plumbing shared by the POS handlers: the
// server lifecycle, request logging and JSON responses.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
)

type Server struct {
	*http.Server
	shutdownTimeout time.Duration
	logger          *logger.Logger
}

func New(port int, h http.Handler, shutdownTimeout time.Duration, log *logger.Logger) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &Server{
		Server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
		logger:          log,
	}
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("service_started", fmt.Sprintf("HTTP server listening on %s", s.Addr), requestID, map[string]interface{}{
			"addr": s.Addr,
		})
		errCh <- s.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("graceful_shutdown", "Shutting down HTTP server", requestID, nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	}
}
