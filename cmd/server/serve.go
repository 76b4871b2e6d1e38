package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/annual/internal/config"
)

func serveCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web service",
		Long: `Run the web service until interrupted.

Configuration is read from config.toml in the config directory, overlaid
with config.<SERVICE_ENV>.toml when present, then environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configDir)
			if err != nil {
				return err
			}

			srv, err := NewServer(cfg, os.Stdout)
			if err != nil {
				return err
			}

			if err := srv.Start(); err != nil {
				return err
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			return srv.Shutdown(cfg.ShutdownTimeoutDuration())
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", ".", "Directory containing config.toml")

	return cmd
}

func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}
