package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Server runs the status endpoints until its context is cancelled.
//
// Example usage:
//
//	srv := NewServer(":9090", NewRouter(health, nil), logger)
//	g.Go(func() error { return srv.Start(ctx) })
type Server struct {
	addr    string
	handler http.Handler
	logger  *slog.Logger
}

// NewServer creates a status server. It does not listen until Start.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{addr: addr, handler: handler, logger: logger}
}

// Start listens on the configured address and serves until ctx is done.
// It returns nil after a graceful shutdown and the listen or serve error otherwise.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener. Serve closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("status server starting", slog.String("addr", ln.Addr().String()))
		errChan <- server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		s.logger.Info("status server shutting down")
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("status server shutdown failed", slog.Any("error", err))
			return err
		}
		s.logger.Info("status server stopped")
		return nil

	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error("status server failed", slog.Any("error", err))
		return err
	}
}
