// Command blobrun loads plan definitions and executes them against a
// workspace.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/blobspace/config"
	"github.com/wippyai/blobspace/workspace"

	// WasmCall operator
	_ "github.com/wippyai/blobspace/wasmop"
)

var (
	configPath string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "blobrun",
	Short:         "Run blobspace plans and nets",
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger, err = cfg.Logging.Build()
		if err != nil {
			return err
		}
		workspace.SetLogger(logger)
		return nil
	},

	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigFile, "Path to the TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newWorkspace() *workspace.Workspace {
	return workspace.New(workspace.WithConfig(cfg), workspace.WithLogger(logger))
}

func closeWorkspace(ws *workspace.Workspace) {
	if err := ws.Close(context.Background()); err != nil {
		logger.Warn("closing workspace", zap.Error(err))
	}
}
