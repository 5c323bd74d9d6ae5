// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/scrubkit/scrub/pkg/dataset"
	"github.com/scrubkit/scrub/pkg/steps"
	"github.com/scrubkit/scrub/pkg/steps/builder"
)

// Property-based tests for pipeline runs over generated datasets. The rapid
// library generates random tables; the tests verify the structural guarantees
// that hold for any input.

func genDataset(t *rapid.T) *dataset.Dataset {
	columnCount := rapid.IntRange(1, 4).Draw(t, "columns")
	columns := make([]string, columnCount)
	for i := range columns {
		columns[i] = fmt.Sprintf("col_%d", i+1)
	}

	ds := dataset.New(columns...)
	rowCount := rapid.IntRange(0, 30).Draw(t, "rows")
	for i := 0; i < rowCount; i++ {
		row := make(dataset.Row, columnCount)
		for _, col := range columns {
			if rapid.Bool().Draw(t, col+"_missing") {
				row[col] = nil
				continue
			}
			row[col] = rapid.StringMatching(`[a-c]{0,2}`).Draw(t, col)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func runSingleStep(t *rapid.T, cfg steps.Config, ds *dataset.Dataset) *Result {
	p, err := New(&Config{Steps: []steps.Config{cfg}}, builder.NewStepBuilder())
	if err != nil {
		t.Fatalf("building pipeline: %v", err)
	}
	result, err := p.Run(context.Background(), ds)
	if err != nil {
		t.Fatalf("running pipeline: %v", err)
	}
	return result
}

// Deduplication is idempotent: running it twice yields the same dataset as
// running it once, and the output never contains two rows with the same key.
func TestPipeline_Run_DeduplicateIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ds := genDataset(t)
		cfg := steps.Config{Name: "dedup", Type: steps.Deduplicate}

		once := runSingleStep(t, cfg, ds).Dataset
		twice := runSingleStep(t, cfg, once).Dataset

		if !once.Equal(twice) {
			t.Fatalf("dedup output changed on second run")
		}

		seen := make(map[string]struct{}, once.RowCount())
		for _, row := range once.Rows {
			key, err := once.RowKey(row)
			if err != nil {
				t.Fatalf("computing row key: %v", err)
			}
			if _, found := seen[key]; found {
				t.Fatalf("duplicate row survived deduplication: %s", key)
			}
			seen[key] = struct{}{}
		}
	})
}

// Deduplication preserves the relative order of surviving rows.
func TestPipeline_Run_DeduplicatePreservesOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ds := genDataset(t)
		out := runSingleStep(t, steps.Config{Name: "dedup", Type: steps.Deduplicate}, ds).Dataset

		keys := make([]string, 0, ds.RowCount())
		seen := make(map[string]struct{}, ds.RowCount())
		for _, row := range ds.Rows {
			key, err := ds.RowKey(row)
			if err != nil {
				t.Fatalf("computing row key: %v", err)
			}
			if _, found := seen[key]; found {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}

		if len(keys) != out.RowCount() {
			t.Fatalf("expected %d rows, got %d", len(keys), out.RowCount())
		}
		for i, row := range out.Rows {
			key, err := out.RowKey(row)
			if err != nil {
				t.Fatalf("computing row key: %v", err)
			}
			if key != keys[i] {
				t.Fatalf("row %d out of order", i)
			}
		}
	})
}

// Constant imputation leaves no missing values in the target column and never
// touches the other columns.
func TestPipeline_Run_ImputeConstantIsComplete(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ds := genDataset(t)
		col := ds.Columns[0]

		cfg := steps.Config{
			Name: "impute",
			Type: steps.Impute,
			Parameters: steps.Parameters{
				"columns": []any{
					map[string]any{"column": col, "strategy": "constant", "value": "filled"},
				},
			},
		}
		out := runSingleStep(t, cfg, ds).Dataset

		count, err := out.ColumnNullCount(col)
		if err != nil {
			t.Fatalf("counting nulls: %v", err)
		}
		if count != 0 {
			t.Fatalf("column %q still has %d missing values", col, count)
		}

		for i, row := range out.Rows {
			for _, other := range ds.Columns[1:] {
				if diff := cmp.Diff(ds.Rows[i][other], row[other]); diff != "" {
					t.Fatalf("column %q changed on row %d: %s", other, i, diff)
				}
			}
		}
	})
}

// A pipeline run never mutates the dataset on input.
func TestPipeline_Run_InputIsNeverMutated(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ds := genDataset(t)
		snapshot := ds.Clone()

		cfg := steps.Config{
			Name: "impute",
			Type: steps.Impute,
			Parameters: steps.Parameters{
				"columns": []any{
					map[string]any{"column": ds.Columns[0], "strategy": "constant", "value": "x"},
				},
			},
		}
		runSingleStep(t, cfg, ds)

		if !ds.Equal(snapshot) {
			t.Fatalf("input dataset was mutated by the run")
		}
	})
}
