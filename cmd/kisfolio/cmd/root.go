// Package cmd - kisfolio CLI commands
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wonny/kisfolio/internal/app"
	"github.com/wonny/kisfolio/internal/pkg/config"
	"github.com/wonny/kisfolio/internal/pkg/logger"
)

var verbose bool

// rootCmd 루트 커맨드
var rootCmd = &cobra.Command{
	Use:   "kisfolio",
	Short: "KIS portfolio demo - CLI",
	Long: `KIS portfolio demo - CLI

Commands:
    serve       start the API server
    token       issue (or reuse) an access token
    quotes      fetch daily quotes for a symbol
    plan        compute weights and an order preview
`,
	SilenceUsage: true,
}

// Execute 루트 커맨드 실행
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(quotesCmd)
	rootCmd.AddCommand(planCmd)
}

// buildApp loads config, initializes logging and wires the core.
func buildApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{
		Level:          level,
		Format:         cfg.Logging.Format,
		ServiceName:    "kisfolio-cli",
		ServiceVersion: "1.0.0",
	}); err != nil {
		return nil, err
	}

	return app.New(cfg)
}
