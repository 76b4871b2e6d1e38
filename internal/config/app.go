package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/annual/pkg/routing"
)

const (
	// EnvAppBasePath overrides the page module mount prefix.
	EnvAppBasePath = "APP_BASE_PATH"

	// EnvAppManifest overrides the route manifest file.
	EnvAppManifest = "APP_MANIFEST"

	// EnvAppPreload overrides eager component resolution at startup.
	EnvAppPreload = "APP_PRELOAD"
)

// AppConfig configures the page module.
type AppConfig struct {
	// BasePath is the module mount prefix. Default: "/app"
	BasePath string `toml:"base_path"`

	// Manifest optionally replaces the built-in route table with a JSON,
	// TOML or YAML manifest file.
	Manifest string `toml:"manifest"`

	// Preload resolves every component at startup instead of on first
	// navigation.
	Preload bool `toml:"preload"`
}

// Finalize applies defaults, loads environment overrides, and validates the app configuration.
func (c *AppConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *AppConfig) Merge(overlay *AppConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Manifest != "" {
		c.Manifest = overlay.Manifest
	}
	if overlay.Preload {
		c.Preload = true
	}
}

func (c *AppConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/app"
	}
}

func (c *AppConfig) loadEnv() error {
	if v := os.Getenv(EnvAppBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAppManifest); v != "" {
		c.Manifest = v
	}
	if v := os.Getenv(EnvAppPreload); v != "" {
		preload, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAppPreload, v, err)
		}
		c.Preload = preload
	}
	return nil
}

func (c *AppConfig) validate() error {
	if err := validateBasePath(c.BasePath); err != nil {
		return err
	}
	if c.Manifest != "" {
		if _, err := routing.FormatFromPath(c.Manifest); err != nil {
			return fmt.Errorf("invalid manifest: %w", err)
		}
		if _, err := os.Stat(c.Manifest); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
	}
	return nil
}
