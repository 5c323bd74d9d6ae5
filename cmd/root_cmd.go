// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scrubkit/scrub/cmd/config"
	"github.com/scrubkit/scrub/pkg/otel"
)

// Version is the scrub version
var Version = "development"

func Prepare() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "scrub",
		Short:        "scrub runs configurable cleaning pipelines over tabular datasets",
		SilenceUsage: true,
		Version:      Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			return nil
		},
	}

	viper.SetEnvPrefix("SCRUB")
	viper.AutomaticEnv()

	// Flag definition

	// root cmd
	rootCmd.PersistentFlags().StringP("config", "c", "", ".env or .yaml config file to use with scrub if any")
	rootCmd.PersistentFlags().String("log-level", "info", "log level for the application. One of trace, debug, info, warn, error, fatal, panic")

	// clean cmd
	cleanCmd.Flags().StringP("input", "i", "", "Path to the CSV file to clean")
	cleanCmd.Flags().StringP("output", "o", "", "Path where the cleaned CSV will be written")
	cleanCmd.Flags().String("report", "", "Path where the JSON run report will be written")

	// validate cmd
	validateCmd.Flags().StringP("input", "i", "", "Path to the CSV file to validate")
	validateCmd.Flags().Bool("json", false, "Output the quality report in JSON format")

	// Flag binding for root cmd
	rootFlagBinding(rootCmd)

	// register subcommands
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(stepsCmd)
	return rootCmd
}

// Execute executes the root command.
func Execute() error {
	cmd := Prepare()
	return cmd.Execute()
}

func withSignalWatcher(fn func(ctx context.Context) error) func(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		<-sigc
		cancel()
	}()

	return func(cmd *cobra.Command, args []string) error {
		defer cancel()
		return fn(ctx)
	}
}

func rootFlagBinding(cmd *cobra.Command) {
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("SCRUB_LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))
}

func newInstrumentationProvider(cfg *otel.Config) (otel.InstrumentationProvider, error) {
	provider, err := otel.NewInstrumentationProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialising instrumentation provider: %w", err)
	}
	return provider, nil
}
