// Package cmd wires the CLI commands together.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RamKarthikeya/ApiTestingG/internal/config"
	"github.com/RamKarthikeya/ApiTestingG/internal/logger"
	"github.com/RamKarthikeya/ApiTestingG/internal/reporter"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "apitester",
	Short: "LLM-assisted API test generation and execution",
	Long: `apitester generates a battery of API test cases for an endpoint,
optionally calibrating expectations against the live service first,
and executes batteries concurrently against a target.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "path to the application config file")
}

// loadApp assembles the pieces every command needs. The caller owns the
// returned logger and must Close it.
func loadApp() (*config.Config, *logger.Logger, *reporter.Reporter, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.NewLogger(cfg.Reporting.LogDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %v", err)
	}

	return cfg, log, reporter.NewReporter(cfg.Reporting.OutputDir), nil
}
