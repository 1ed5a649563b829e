package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Server hosts the FermiApi over HTTP until its context is cancelled.
type Server struct {
	Config Config
	Logger *slog.Logger
}

func (s *Server) Start(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	api := NewFermiApi(s.Config, logger)
	srv := &http.Server{
		Addr:              s.Config.Address,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", s.Config.Address)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server", "address", s.Config.Address)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
