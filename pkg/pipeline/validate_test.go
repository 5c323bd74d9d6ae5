// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scrubkit/scrub/pkg/dataset"
	"github.com/scrubkit/scrub/pkg/steps"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	ds := &dataset.Dataset{
		Columns: []string{"name"},
		Rows: []dataset.Row{
			{"name": "Alice"},
			{"name": "Alice"},
			{"name": nil},
		},
	}

	tests := []struct {
		name    string
		cfgs    []RuleConfig
		dataset *dataset.Dataset

		wantFailed int
		wantErr    error
	}{
		{
			name: "ok - mixed outcomes",
			cfgs: []RuleConfig{
				{Type: NoDuplicates},
				{Type: NoNulls},
				{Type: MinRows, Parameters: steps.Parameters{"min": 1}},
			},
			dataset: ds,

			wantFailed: 2,
		},
		{
			name:    "ok - no rules",
			cfgs:    nil,
			dataset: ds,

			wantFailed: 0,
		},
		{
			name: "error - invalid rule config",
			cfgs: []RuleConfig{
				{Type: MinRows},
			},
			dataset: ds,

			wantErr: ErrInvalidRuleConfig,
		},
		{
			name:    "error - nil dataset",
			cfgs:    []RuleConfig{{Type: NoDuplicates}},
			dataset: nil,

			wantErr: ErrNilDataset,
		},
		{
			name:    "error - empty schema",
			cfgs:    []RuleConfig{{Type: NoDuplicates}},
			dataset: &dataset.Dataset{},

			wantErr: ErrEmptySchema,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			report, err := Validate(tc.cfgs, tc.dataset)
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				return
			}

			require.Len(t, report.Outcomes, len(tc.cfgs))
			require.Equal(t, tc.wantFailed, report.Failed())
		})
	}
}

func TestValidationReport_PrettyPrint(t *testing.T) {
	t.Parallel()

	report := &ValidationReport{
		Outcomes: []Outcome{
			{Rule: "no_duplicates", Passed: true, Message: "no duplicate rows"},
			{Rule: "min_rows", Passed: false, Message: "dataset has 1 rows, expected at least 2"},
		},
	}

	out := report.PrettyPrint()
	require.Contains(t, out, "PASS no_duplicates")
	require.Contains(t, out, "FAIL min_rows")
	require.Contains(t, out, "1/2 rules passed")
}
