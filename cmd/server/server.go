package main

import (
	"time"

	"github.com/JaimeStill/tavern/internal/config"
	"github.com/JaimeStill/tavern/internal/infrastructure"
	"github.com/JaimeStill/tavern/pkg/module"
)

// Server is the page host: the callback module plus health checks.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	router  *module.Router
	http    *httpServer
}

// NewServer wires infrastructure, modules, and the HTTP listener.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	if err := modules.Mount(router); err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"modules", router.Prefixes(),
	)

	return &Server{
		infra:   infra,
		modules: modules,
		router:  router,
		http:    newHTTPServer(&cfg.Server, cfg.ShutdownTimeoutDuration(), router, infra.Logger),
	}, nil
}

// Start binds the listener, then registers lifecycle hooks. A bind failure
// is returned with the database closed and nothing registered. Readiness
// flips once every startup check passes.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		s.infra.Database.Close()
		return err
	}

	if err := s.infra.Start(); err != nil {
		s.infra.Lifecycle.Shutdown(s.http.shutdownTimeout)
		return err
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("startup checks failed", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Done delivers the listener's result if it stops serving.
func (s *Server) Done() <-chan error {
	return s.http.Done()
}

// Shutdown stops the listener and closes the database within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
