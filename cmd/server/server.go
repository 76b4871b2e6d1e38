package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JaimeStill/annual/internal/config"
	"github.com/JaimeStill/annual/internal/infrastructure"
	"github.com/JaimeStill/annual/internal/server"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	cfg     *config.Config
	infra   *infrastructure.Infrastructure
	modules *Modules
	handler http.Handler
	http    server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config, logOut io.Writer) (*Server, error) {
	infra, err := infrastructure.NewWithWriter(cfg, logOut)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", version,
		"app", cfg.App.BasePath,
		"api", cfg.API.BasePath,
	)

	return &Server{
		cfg:     cfg,
		infra:   infra,
		modules: modules,
		handler: router,
		http:    server.New(&cfg.Server, router, infra.Logger, cfg.ShutdownTimeoutDuration()),
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins all subsystems and returns once the listener is bound.
// With preloading enabled every component is resolved first so that a
// broken table fails startup rather than the first navigation.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if s.cfg.App.Preload {
		start := time.Now()
		if err := s.modules.App.Preload(s.infra.Lifecycle.Context()); err != nil {
			return fmt.Errorf("preload components: %w", err)
		}
		s.infra.Logger.Info("components preloaded",
			"count", len(s.infra.Table.Components()),
			"duration", time.Since(start),
		)
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
