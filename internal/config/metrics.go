package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// EnvMetricsEnabled overrides whether /metrics is served.
	EnvMetricsEnabled = "METRICS_ENABLED"

	// EnvMetricsNamespace overrides the Prometheus namespace.
	EnvMetricsNamespace = "METRICS_NAMESPACE"
)

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   *bool  `toml:"enabled"`
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

// IsEnabled reports whether metrics are served. Metrics are on unless
// explicitly disabled.
func (c *MetricsConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Finalize applies defaults, loads environment overrides, and validates the metrics configuration.
func (c *MetricsConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}

	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("invalid path %q", c.Path)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *MetricsConfig) Merge(overlay *MetricsConfig) {
	if overlay.Enabled != nil {
		enabled := *overlay.Enabled
		c.Enabled = &enabled
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Namespace != "" {
		c.Namespace = overlay.Namespace
	}
}

func (c *MetricsConfig) loadDefaults() {
	if c.Path == "" {
		c.Path = "/metrics"
	}
	if c.Namespace == "" {
		c.Namespace = "annual"
	}
}

func (c *MetricsConfig) loadEnv() error {
	if v := os.Getenv(EnvMetricsEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMetricsEnabled, v, err)
		}
		c.Enabled = &enabled
	}
	if v := os.Getenv(EnvMetricsNamespace); v != "" {
		c.Namespace = v
	}
	return nil
}
