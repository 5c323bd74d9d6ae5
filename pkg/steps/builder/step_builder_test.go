// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scrubkit/scrub/pkg/steps"
)

func TestStepBuilder_New(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *steps.Config

		wantType steps.StepType
		wantErr  error
	}{
		{
			name: "ok - deduplicate",
			cfg: &steps.Config{
				Name: "dedup",
				Type: steps.Deduplicate,
			},

			wantType: steps.Deduplicate,
		},
		{
			name: "ok - flag outliers",
			cfg: &steps.Config{
				Name: "outliers",
				Type: steps.FlagOutliers,
				Parameters: steps.Parameters{
					"columns": "score",
					"method":  "iqr",
				},
			},

			wantType: steps.FlagOutliers,
		},
		{
			name: "error - unknown step type",
			cfg: &steps.Config{
				Name: "mystery",
				Type: steps.StepType("mystery"),
			},

			wantErr: steps.ErrUnsupportedStep,
		},
		{
			name: "error - invalid parameters",
			cfg: &steps.Config{
				Name: "outliers",
				Type: steps.FlagOutliers,
			},

			wantErr: steps.ErrInvalidParameters,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := NewStepBuilder()
			step, err := b.New(tc.cfg)
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				return
			}

			require.Equal(t, tc.cfg.Name, step.Name())
			require.Equal(t, tc.wantType, step.Type())
		})
	}
}

func TestDefinitions(t *testing.T) {
	t.Parallel()

	definitions := Definitions()
	require.Len(t, definitions, len(StepsMap))

	// sorted by type, one definition per registered step
	for i := 1; i < len(definitions); i++ {
		require.Less(t, definitions[i-1].Type, definitions[i].Type)
	}
	for _, def := range definitions {
		require.Contains(t, StepsMap, def.Type)
	}
}
