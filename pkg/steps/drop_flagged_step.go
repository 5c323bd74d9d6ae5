// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cast"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// DropFlaggedStep deletes rows where the configured boolean flag column is
// true. It pairs with FlagOutliersStep to make row deletion an explicit,
// separate decision.
type DropFlaggedStep struct {
	name       string
	flagColumn string
	keepColumn bool
}

func NewDropFlaggedStep(name string, params Parameters) (*DropFlaggedStep, error) {
	flagColumn, found, err := FindParameter[string](params, "flag_column")
	if err != nil {
		return nil, fmt.Errorf("drop_flagged: flag_column must be a string: %w", err)
	}
	if !found || flagColumn == "" {
		return nil, fmt.Errorf("drop_flagged: flag_column is required: %w", ErrInvalidParameters)
	}

	keepColumn, err := FindParameterWithDefault(params, "keep_column", false)
	if err != nil {
		return nil, fmt.Errorf("drop_flagged: keep_column must be a boolean: %w", err)
	}

	return &DropFlaggedStep{
		name:       name,
		flagColumn: flagColumn,
		keepColumn: keepColumn,
	}, nil
}

func (s *DropFlaggedStep) Name() string {
	return s.name
}

func (s *DropFlaggedStep) Type() StepType {
	return DropFlagged
}

func (s *DropFlaggedStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !ds.HasColumn(s.flagColumn) {
		return nil, fmt.Errorf("drop_flagged: %w: %s", dataset.ErrColumnNotFound, s.flagColumn)
	}

	out := ds.Clone()
	kept := out.Rows[:0]
	for _, row := range out.Rows {
		if cast.ToBool(row[s.flagColumn]) {
			continue
		}
		if !s.keepColumn {
			delete(row, s.flagColumn)
		}
		kept = append(kept, row)
	}
	out.Rows = kept

	if !s.keepColumn {
		out.Columns = slices.DeleteFunc(out.Columns, func(col string) bool {
			return col == s.flagColumn
		})
	}
	return out, nil
}

func DropFlaggedStepDefinition() *Definition {
	return &Definition{
		Type:        DropFlagged,
		Description: "Deletes rows marked true in a boolean flag column",
		Parameters: []ParameterDefinition{
			{
				Name:          "flag_column",
				SupportedType: "string",
				Required:      true,
			},
			{
				Name:          "keep_column",
				SupportedType: "boolean",
				Default:       false,
			},
		},
	}
}
