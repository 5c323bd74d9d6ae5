// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/scrubkit/scrub/pkg/steps/builder"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Steps lists the supported cleaning step types and their parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := pterm.TableData{
			{"step", "parameter", "type", "required", "default"},
		}
		for _, def := range builder.Definitions() {
			if len(def.Parameters) == 0 {
				table = append(table, []string{string(def.Type), "", "", "", ""})
				continue
			}
			for i, param := range def.Parameters {
				stepName := ""
				if i == 0 {
					stepName = string(def.Type)
				}
				table = append(table, []string{
					stepName,
					param.Name,
					param.SupportedType,
					fmt.Sprintf("%t", param.Required),
					fmt.Sprintf("%v", param.Default),
				})
			}
		}
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	},
}
