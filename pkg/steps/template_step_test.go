// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scrubkit/scrub/pkg/dataset"
)

func TestNewTemplateStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Parameters

		wantErr bool
	}{
		{
			name: "ok - valid template",
			params: Parameters{
				"column":   "name",
				"template": "{{ .Value | upper }}",
			},
		},
		{
			name: "error - missing column",
			params: Parameters{
				"template": "{{ .Value }}",
			},

			wantErr: true,
		},
		{
			name: "error - missing template",
			params: Parameters{
				"column": "name",
			},

			wantErr: true,
		},
		{
			name: "error - malformed template",
			params: Parameters{
				"column":   "name",
				"template": "{{ .Value",
			},

			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewTemplateStep("tmpl", tc.params)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTemplateStep_Apply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Parameters
		row    dataset.Row

		wantColumns []string
		wantRow     dataset.Row
	}{
		{
			name: "ok - normalize existing column",
			params: Parameters{
				"column":   "name",
				"template": "{{ .Value | trim | title }}",
			},
			row: dataset.Row{"name": " alice  "},

			wantColumns: []string{"name"},
			wantRow:     dataset.Row{"name": "Alice"},
		},
		{
			name: "ok - derived column from row values",
			params: Parameters{
				"column":   "full_name",
				"template": "{{ index .Row \"first\" }} {{ index .Row \"last\" }}",
			},
			row: dataset.Row{"first": "Alice", "last": "Smith"},

			wantColumns: []string{"first", "last", "full_name"},
			wantRow:     dataset.Row{"first": "Alice", "last": "Smith", "full_name": "Alice Smith"},
		},
		{
			name: "ok - default for missing value",
			params: Parameters{
				"column":   "city",
				"template": `{{ if .Value }}{{ .Value }}{{ else }}unknown{{ end }}`,
			},
			row: dataset.Row{"city": nil},

			wantColumns: []string{"city"},
			wantRow:     dataset.Row{"city": "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			step, err := NewTemplateStep("tmpl", tc.params)
			require.NoError(t, err)

			columns := make([]string, 0, len(tc.row))
			for _, col := range tc.wantColumns {
				if _, found := tc.row[col]; found {
					columns = append(columns, col)
				}
			}
			ds := &dataset.Dataset{
				Columns: columns,
				Rows:    []dataset.Row{tc.row},
			}

			got, err := step.Apply(context.Background(), ds)
			require.NoError(t, err)
			require.Equal(t, tc.wantColumns, got.Columns)
			require.Equal(t, tc.wantRow, got.Rows[0])
		})
	}
}

func TestTemplateStep_Apply_ExecutionError(t *testing.T) {
	t.Parallel()

	step, err := NewTemplateStep("tmpl", Parameters{
		"column":   "name",
		"template": `{{ fail "boom" }}`,
	})
	require.NoError(t, err)

	ds := &dataset.Dataset{
		Columns: []string{"name"},
		Rows:    []dataset.Row{{"name": "alice"}},
	}
	_, err = step.Apply(context.Background(), ds)
	require.Error(t, err)
}
