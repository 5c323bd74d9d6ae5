// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scrubkit/scrub/pkg/dataset"
)

func TestNewStandardizeTextStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Parameters

		wantErr error
	}{
		{
			name:   "ok - minimal params",
			params: Parameters{"columns": []string{"name"}},
		},
		{
			name: "ok - all params",
			params: Parameters{
				"columns":     []any{"name", "city"},
				"case":        CaseTitle,
				"trim_spaces": false,
				"language":    "es",
			},
		},
		{
			name:   "error - missing columns",
			params: Parameters{},

			wantErr: ErrInvalidParameters,
		},
		{
			name: "error - unknown case policy",
			params: Parameters{
				"columns": "name",
				"case":    "sarcastic",
			},

			wantErr: ErrInvalidParameters,
		},
		{
			name: "error - invalid language tag",
			params: Parameters{
				"columns":  "name",
				"language": "not a tag",
			},

			wantErr: ErrInvalidParameters,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewStandardizeTextStep("standardize", tc.params)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestStandardizeTextStep_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Parameters
		row    dataset.Row

		wantRow dataset.Row
		wantErr error
	}{
		{
			name:   "ok - trim and collapse whitespace",
			params: Parameters{"columns": "name"},
			row:    dataset.Row{"name": "  Alice   Smith \t"},

			wantRow: dataset.Row{"name": "Alice Smith"},
		},
		{
			name: "ok - lowercase",
			params: Parameters{
				"columns": "name",
				"case":    CaseLower,
			},
			row: dataset.Row{"name": "ALICE"},

			wantRow: dataset.Row{"name": "alice"},
		},
		{
			name: "ok - uppercase",
			params: Parameters{
				"columns": "name",
				"case":    CaseUpper,
			},
			row: dataset.Row{"name": "alice"},

			wantRow: dataset.Row{"name": "ALICE"},
		},
		{
			name: "ok - title case",
			params: Parameters{
				"columns": "name",
				"case":    CaseTitle,
			},
			row: dataset.Row{"name": "alice smith"},

			wantRow: dataset.Row{"name": "Alice Smith"},
		},
		{
			name: "ok - trim disabled keeps inner whitespace",
			params: Parameters{
				"columns":     "name",
				"case":        CaseUpper,
				"trim_spaces": false,
			},
			row: dataset.Row{"name": " alice  smith "},

			wantRow: dataset.Row{"name": " ALICE  SMITH "},
		},
		{
			name:   "ok - non string cells untouched",
			params: Parameters{"columns": "name"},
			row:    dataset.Row{"name": 42},

			wantRow: dataset.Row{"name": 42},
		},
		{
			name:   "ok - missing values untouched",
			params: Parameters{"columns": "name"},
			row:    dataset.Row{"name": nil},

			wantRow: dataset.Row{"name": nil},
		},
		{
			name:   "error - unknown column",
			params: Parameters{"columns": "missing"},
			row:    dataset.Row{"name": "Alice"},

			wantErr: dataset.ErrColumnNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			step, err := NewStandardizeTextStep("standardize", tc.params)
			require.NoError(t, err)

			ds := &dataset.Dataset{
				Columns: []string{"name"},
				Rows:    []dataset.Row{tc.row},
			}
			got, err := step.Apply(context.Background(), ds)
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				return
			}
			require.Equal(t, tc.wantRow, got.Rows[0])
		})
	}
}
