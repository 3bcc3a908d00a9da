package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/tavern/internal/config"
	"github.com/JaimeStill/tavern/pkg/lifecycle"
)

// httpServer binds in Start; errors from the serve loop arrive on Done.
type httpServer struct {
	srv             *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
	addr            net.Addr
	done            chan error
}

func newHTTPServer(cfg *config.ServerConfig, shutdownTimeout time.Duration, handler http.Handler, logger *slog.Logger) *httpServer {
	logger = logger.With("system", "http")
	t := cfg.Timeouts()

	return &httpServer{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       t.Read,
			ReadHeaderTimeout: t.ReadHeader,
			WriteTimeout:      t.Write,
			IdleTimeout:       t.Idle,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
		done:            make(chan error, 1),
	}
}

// Start binds the listen address, serves in the background, and registers
// the graceful shutdown hook. Nothing is registered when the bind fails.
func (s *httpServer) Start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.addr = ln.Addr()
	s.logger.Info("server listening", "addr", s.addr.String())

	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		} else {
			s.logger.Error("server stopped", "error", err)
		}
		s.done <- err
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
			return
		}
		s.logger.Info("server shutdown complete")
	})

	return nil
}

// Addr returns the bound address, or nil before Start succeeds.
func (s *httpServer) Addr() net.Addr {
	return s.addr
}

// Done delivers the serve loop's result once it exits; nil after a
// graceful shutdown.
func (s *httpServer) Done() <-chan error {
	return s.done
}
