// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"
	"slices"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// DedupStep removes exact duplicate rows, keeping the first occurrence in
// original row order. Two rows are duplicates when all declared column values
// compare equal.
type DedupStep struct {
	name string
}

func NewDedupStep(name string, _ Parameters) (*DedupStep, error) {
	return &DedupStep{name: name}, nil
}

func (s *DedupStep) Name() string {
	return s.name
}

func (s *DedupStep) Type() StepType {
	return Deduplicate
}

func (s *DedupStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	out := &dataset.Dataset{
		Columns: slices.Clone(ds.Columns),
		Rows:    make([]dataset.Row, 0, ds.RowCount()),
	}

	seen := make(map[string]struct{}, ds.RowCount())
	for _, row := range ds.Rows {
		key, err := ds.RowKey(row)
		if err != nil {
			return nil, fmt.Errorf("deduplicate: %w", err)
		}
		if _, found := seen[key]; found {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, cloneRow(row))
	}

	return out, nil
}

func cloneRow(row dataset.Row) dataset.Row {
	clone := make(dataset.Row, len(row))
	for k, v := range row {
		clone[k] = v
	}
	return clone
}

func DedupStepDefinition() *Definition {
	return &Definition{
		Type:        Deduplicate,
		Description: "Removes exact duplicate rows, keeping the first occurrence",
	}
}
