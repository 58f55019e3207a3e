package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Start runs the background processor and the HTTP server, then blocks until
// an interrupt or terminate signal triggers a graceful shutdown.
func (s *Server) Start() {
	procCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()

	if err := s.processor.Start(procCtx); err != nil {
		slog.Error("Failed to start document processor", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := s.E.Start(s.Cfg.GetServerAddr()); err != nil && err != http.ErrServerClosed {
			s.E.Logger.Fatalf("shutting down the server: %v", err)
		}
	}()

	waitForShutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop accepting work before tearing down the bus and database.
	stopProcessor()
	if err := s.bus.Close(); err != nil {
		slog.Error("Failed to close message bus", "error", err)
	}

	s.DB.Close(ctx)
	if err := s.E.Shutdown(ctx); err != nil {
		s.E.Logger.Fatal(err)
	}
}
