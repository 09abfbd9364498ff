package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"market-directory/internal/observability"
)

type Server struct {
	server *http.Server
	logger *observability.Logger
}

func NewServer(addr string, handler http.Handler, logger *observability.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks until the server stops. A shutdown is not an error.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "server_start", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "server_shutdown")
	return s.server.Shutdown(ctx)
}
