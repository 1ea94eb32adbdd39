package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avillegas/care-assistant/internal/config"
	"github.com/avillegas/care-assistant/internal/logger"
	"github.com/avillegas/care-assistant/internal/service/assistant"
	"github.com/avillegas/care-assistant/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel is the minimum level emitted by the global logger.
	logLevel string

	// rootCmd represents the base command for running the voice assistant.
	rootCmd = &cobra.Command{
		Use:   "care-assistant",
		Short: "Run the home-care voice assistant.",
		Long: `Starts the voice assistant daemon for an elderly person's home.

The assistant connects to the sensor bus, listens for spoken commands in
Spanish, fires stored reminders aloud once per day and escalates fall
detections and cries for help to the caregiver over the configured
channels. Missing channel credentials disable the corresponding channel;
a sensor bus outage degrades sensor commands but never stops the daemon.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			return assistant.Run(ctx, &assistant.Options{
				ConfigPath: configPath,
			})
		},
	}
)

// Execute runs the care-assistant CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "minimum log level (debug, info, warn, error)")
}
