package main

import (
	"fmt"

	"github.com/aatumaykin/curlloop/internal/config"
	"github.com/aatumaykin/curlloop/internal/constants"
	"github.com/aatumaykin/curlloop/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envPath    string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands.
// Without a subcommand it behaves like serve.
var rootCmd = &cobra.Command{
	Use:   "curlloop",
	Short: "curlloop - run a curl command on a fixed interval",
	Long: `curlloop runs a curl command right away and then every N minutes.
Each response is reduced to its {...} payload, appended to a timestamped
log file and shown as a desktop notification. A small web page at
http://localhost:3000 starts and stops the loop.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", constants.DefaultConfigPath, "path to config file")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", constants.DefaultEnvPath, "path to .env file, ignored when missing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	addServeFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(onceCmd)
}

// loadConfig loads .env, the config file (defaults when missing), applies
// flag overrides and validates the result.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvOptional(envPath); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, validationError(errs)
	}

	return cfg, nil
}

func validationError(errs []error) error {
	msg := "configuration validation failed:"
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
