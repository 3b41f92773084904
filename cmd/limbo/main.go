// Command limbo runs a standalone limbo server: a minimal, version-spanning
// holding room a proxy can park players in (spec.md section 1).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-mclib/limbo/internal/assets"
	"github.com/go-mclib/limbo/internal/config"
	"github.com/go-mclib/limbo/internal/server"
)

// Exit codes (spec.md section 8).
const (
	exitOK           = 0
	exitConfigError  = 1
	exitBindFailure  = 2
	exitAssetFailure = 3
)

func main() {
	var configPath string
	var dataDir string
	var verbose bool

	root := &cobra.Command{
		Use:   "limbo",
		Short: "a minimal, version-spanning Minecraft limbo server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, dataDir, verbose)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	root.Flags().StringVarP(&dataDir, "data-dir", "d", "", "path to the bundled assets directory (overrides config)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	if err := root.Execute(); err != nil {
		os.Exit(exitConfigError)
	}
}

// run loads configuration and assets, builds the shared server state, and
// runs the acceptor until a shutdown signal arrives or it fails outright.
func run(configPath, dataDir string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("configuration error", zap.Error(err))
		os.Exit(exitConfigError)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	loader := assets.NewLoader(cfg.DataDir)
	shared, err := server.NewSharedState(cfg, loader, logger)
	if err != nil {
		logger.Error("failed to load assets", zap.Error(err))
		os.Exit(exitAssetFailure)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	acceptor := server.NewAcceptor(shared)
	if err := acceptor.Run(ctx); err != nil {
		logger.Error("listener failed", zap.Error(err))
		os.Exit(exitBindFailure)
	}

	logger.Info("shut down cleanly")
	os.Exit(exitOK)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
