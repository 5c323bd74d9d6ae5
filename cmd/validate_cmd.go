// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scrubkit/scrub/cmd/config"
	"github.com/scrubkit/scrub/pkg/pipeline"
)

const trueStr = "true"

var validateCmd = &cobra.Command{
	Use:    "validate",
	Short:  "Validate evaluates the configured quality rules against the input dataset without cleaning it",
	PreRun: validateFlagBinding,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.ParseConfig()
		if err != nil {
			return fmt.Errorf("parsing configuration: %w", err)
		}

		ds, err := readDataset(&cfg.Input)
		if err != nil {
			return err
		}

		sp, _ := pterm.DefaultSpinner.WithText("evaluating quality rules...").Start()

		report, err := pipeline.Validate(cfg.Pipeline.QualityRules, ds)
		if err != nil {
			sp.Fail(err.Error())
			return err
		}

		if failed := report.Failed(); failed == 0 {
			sp.Success("all quality rules passed")
		} else {
			sp.Warning(fmt.Sprintf("%d quality rules failed", failed))
		}

		if err := print(cmd, report); err != nil {
			sp.Fail("failed to format quality report")
			return err
		}

		return nil
	},
	Example: `
	scrub validate -c pipeline.yaml
	scrub validate -c pipeline.yaml -i raw.csv --json`,
}

type printer interface {
	PrettyPrint() string
}

func print(cmd *cobra.Command, p printer) error {
	str := p.PrettyPrint()
	if cmd.Flags().Lookup("json").Value.String() == trueStr {
		var prettyJSON bytes.Buffer
		jsonData, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if err := json.Indent(&prettyJSON, jsonData, "", "\t"); err != nil {
			return err
		}
		str = prettyJSON.String()
	}

	fmt.Println(str) //nolint:forbidigo
	return nil
}

func validateFlagBinding(cmd *cobra.Command, _ []string) {
	viper.BindPFlag("input.path", cmd.Flags().Lookup("input"))
	viper.BindPFlag("SCRUB_INPUT_PATH", cmd.Flags().Lookup("input"))
}
