// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scrubkit/scrub/cmd/config"
	"github.com/scrubkit/scrub/internal/log/zerolog"
	"github.com/scrubkit/scrub/internal/progress"
	"github.com/scrubkit/scrub/pkg/dataset"
	"github.com/scrubkit/scrub/pkg/pipeline"
	"github.com/scrubkit/scrub/pkg/steps/builder"
)

var cleanCmd = &cobra.Command{
	Use:    "clean",
	Short:  "Clean runs the configured pipeline over the input dataset and writes the cleaned output",
	PreRun: cleanFlagBinding,
	RunE:   withSignalWatcher(clean),
	Example: `
	scrub clean -c pipeline.yaml
	scrub clean -c pipeline.yaml -i raw.csv -o cleaned.csv
	scrub clean -c scrub.env --report run_report.json`,
}

func clean(ctx context.Context) error {
	logger := zerolog.NewLogger(&zerolog.Config{
		LogLevel: viper.GetString("SCRUB_LOG_LEVEL"),
	})
	zerolog.SetGlobalLogger(logger)

	cfg, err := config.ParseConfig()
	if err != nil {
		return fmt.Errorf("parsing configuration: %w", err)
	}

	provider, err := newInstrumentationProvider(cfg.Instrumentation)
	if err != nil {
		return err
	}
	defer provider.Close()

	stepBuilder := builder.NewStepBuilder(
		builder.WithInstrumentation(provider.NewInstrumentation("clean")),
	)
	p, err := pipeline.New(cfg.Pipeline, stepBuilder, pipeline.WithLogger(zerolog.NewStdLogger(logger)))
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}

	ds, err := readDataset(&cfg.Input)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, ds)
	if err != nil {
		var stepErr *pipeline.StepError
		if errors.As(err, &stepErr) {
			pterm.Error.Printfln("pipeline stopped at step %q after %d completed steps", stepErr.StepName, len(stepErr.Log))
		}
		return err
	}

	if err := writeDataset(&cfg.Output, result.Dataset); err != nil {
		return err
	}

	if cfg.Output.ReportPath != "" {
		report, err := result.Report()
		if err != nil {
			return err
		}
		if err := os.WriteFile(cfg.Output.ReportPath, report, 0o644); err != nil {
			return fmt.Errorf("writing run report: %w", err)
		}
	}

	pterm.Println(result.PrettyPrint())
	return nil
}

func readDataset(cfg *config.InputConfig) (*dataset.Dataset, error) {
	sp, _ := pterm.DefaultSpinner.WithText("reading input dataset...").Start()

	file, err := os.Open(cfg.Path)
	if err != nil {
		sp.Fail(err.Error())
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	ds, err := dataset.ReadCSV(file, &dataset.CSVOptions{
		Delimiter: csvDelimiter(cfg.Delimiter),
		NoHeader:  cfg.NoHeader,
	})
	if err != nil {
		sp.Fail(err.Error())
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	sp.Success(fmt.Sprintf("loaded %d rows from %s", ds.RowCount(), cfg.Path))
	return ds, nil
}

func writeDataset(cfg *config.OutputConfig, ds *dataset.Dataset) error {
	file, err := os.Create(cfg.Path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	bar := progress.NewRowsBar(ds.RowCount(), "writing cleaned dataset")
	defer bar.Close()

	opts := &dataset.CSVOptions{Delimiter: csvDelimiter(cfg.Delimiter)}
	if err := dataset.WriteCSV(file, ds, opts, func() { bar.Add(1) }); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

func csvDelimiter(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func cleanFlagBinding(cmd *cobra.Command, _ []string) {
	// to be able to overwrite configuration with flags when yaml config file
	// is provided
	viper.BindPFlag("input.path", cmd.Flags().Lookup("input"))
	viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	viper.BindPFlag("output.report_path", cmd.Flags().Lookup("report"))

	// to be able to overwrite configuration with flags when env config file
	// is provided or when no configuration is provided
	viper.BindPFlag("SCRUB_INPUT_PATH", cmd.Flags().Lookup("input"))
	viper.BindPFlag("SCRUB_OUTPUT_PATH", cmd.Flags().Lookup("output"))
	viper.BindPFlag("SCRUB_OUTPUT_REPORT_PATH", cmd.Flags().Lookup("report"))
}
