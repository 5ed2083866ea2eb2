// Package cmd implements the uibridge CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linanwx/uibridge/config"
	"github.com/linanwx/uibridge/logger"
)

const version = "0.1.0"

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "uibridge",
	Short: "Text input/output components driven locally or by an external host",
	Long: `uibridge hosts two small text components in the terminal:

  appender  appends submitted input lines to an output log
  bridge    additionally exchanges JSON messages with an external host
            over WebSocket or stdio`,
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.uibridge)")
}

// initRuntime applies the config dir override and configures logging
// before any subcommand runs.
func initRuntime(_ *cobra.Command, _ []string) error {
	if configDirFlag != "" {
		config.SetConfigDir(configDirFlag)
	}
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	dir, _ := config.ConfigDir()
	if err := logger.Init(cfg.BuildLoggerConfig(), dir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
	}
	return nil
}
