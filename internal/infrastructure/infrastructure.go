// Package infrastructure provides core service initialization for application startup.
// It assembles the common dependencies (lifecycle, logging, metrics and the
// page route table) that the service modules require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/annual/internal/config"
	"github.com/JaimeStill/annual/pkg/lifecycle"
	"github.com/JaimeStill/annual/pkg/logging"
	"github.com/JaimeStill/annual/pkg/metrics"
	"github.com/JaimeStill/annual/pkg/routing"
	"github.com/JaimeStill/annual/web/app"
)

// Infrastructure holds the core systems required by all modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Table     *routing.Table
}

// New creates an Infrastructure from the application configuration, logging
// to stdout.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates an Infrastructure logging to w.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	logger := logging.New(&cfg.Logging, w, cfg.Name)

	table, err := LoadTable(&cfg.App)
	if err != nil {
		return nil, fmt.Errorf("route table init failed: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.IsEnabled() {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	logger.Info("route table loaded",
		"source", tableSource(&cfg.App),
		"records", table.Len(),
	)

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Metrics:   m,
		Table:     table,
	}, nil
}

// LoadTable returns the route table named by the app manifest setting, or
// the built-in table when no manifest is configured.
func LoadTable(cfg *config.AppConfig) (*routing.Table, error) {
	if cfg.Manifest == "" {
		return app.Table()
	}
	return routing.LoadFile(cfg.Manifest)
}

func tableSource(cfg *config.AppConfig) string {
	if cfg.Manifest == "" {
		return "builtin"
	}
	return cfg.Manifest
}
