// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cast"

	mathlib "github.com/scrubkit/scrub/internal/math"
	"github.com/scrubkit/scrub/pkg/dataset"
)

// FlagOutliersStep marks rows whose value in a numeric column falls outside
// the bound computed by the configured method, adding a boolean flag column
// `<column><suffix>`. Constant columns are skipped under zscore and get no
// flag column. Rows are never deleted; see DropFlaggedStep for that.
type FlagOutliersStep struct {
	name       string
	columns    []string
	method     string
	threshold  float64
	factor     float64
	flagSuffix string
}

const (
	MethodZScore = "zscore"
	MethodIQR    = "iqr"

	defaultZScoreThreshold = 3.0
	defaultIQRFactor       = 1.5
	defaultFlagSuffix      = "_outlier"
)

func NewFlagOutliersStep(name string, params Parameters) (*FlagOutliersStep, error) {
	columns, found, err := FindColumnsParameter(params, "columns")
	if err != nil {
		return nil, fmt.Errorf("flag_outliers: columns must be a list of strings: %w", err)
	}
	if !found || len(columns) == 0 {
		return nil, fmt.Errorf("flag_outliers: columns is required: %w", ErrInvalidParameters)
	}

	method, err := FindParameterWithDefault(params, "method", MethodZScore)
	if err != nil {
		return nil, fmt.Errorf("flag_outliers: method must be a string: %w", err)
	}
	if method != MethodZScore && method != MethodIQR {
		return nil, fmt.Errorf("flag_outliers: unknown method %q: %w", method, ErrInvalidParameters)
	}

	threshold, err := findFloatParameter(params, "threshold", defaultZScoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("flag_outliers: threshold must be numeric: %w", err)
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("flag_outliers: threshold must be positive: %w", ErrInvalidParameters)
	}

	factor, err := findFloatParameter(params, "factor", defaultIQRFactor)
	if err != nil {
		return nil, fmt.Errorf("flag_outliers: factor must be numeric: %w", err)
	}
	if factor <= 0 {
		return nil, fmt.Errorf("flag_outliers: factor must be positive: %w", ErrInvalidParameters)
	}

	flagSuffix, err := FindParameterWithDefault(params, "flag_suffix", defaultFlagSuffix)
	if err != nil {
		return nil, fmt.Errorf("flag_outliers: flag_suffix must be a string: %w", err)
	}

	return &FlagOutliersStep{
		name:       name,
		columns:    columns,
		method:     method,
		threshold:  threshold,
		factor:     factor,
		flagSuffix: flagSuffix,
	}, nil
}

func (s *FlagOutliersStep) Name() string {
	return s.name
}

func (s *FlagOutliersStep) Type() StepType {
	return FlagOutliers
}

func (s *FlagOutliersStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	for _, col := range s.columns {
		if !ds.HasColumn(col) {
			return nil, fmt.Errorf("flag_outliers: %w: %s", dataset.ErrColumnNotFound, col)
		}
	}

	out := ds.Clone()
	for _, col := range s.columns {
		if err := s.flagColumn(out, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *FlagOutliersStep) flagColumn(ds *dataset.Dataset, col string) error {
	numbers, err := toFloats(ds.ColumnValues(col))
	if err != nil {
		return fmt.Errorf("flag_outliers: column %q requires numeric values: %w", col, ErrTypeMismatch)
	}

	isOutlier := func(float64) bool { return false }
	switch s.method {
	case MethodZScore:
		mean := mathlib.Average(numbers)
		stddev := mathlib.StandardDeviation(numbers)
		// flagging is undefined for constant columns, leave them untouched
		if stddev == 0 {
			return nil
		}
		isOutlier = func(v float64) bool {
			return math.Abs(v-mean)/stddev > s.threshold
		}
	case MethodIQR:
		q1, q3 := mathlib.Quartiles(numbers)
		iqr := q3 - q1
		lower := q1 - s.factor*iqr
		upper := q3 + s.factor*iqr
		isOutlier = func(v float64) bool {
			return v < lower || v > upper
		}
	}

	flagCol := col + s.flagSuffix
	ds.AddColumn(flagCol)

	for _, row := range ds.Rows {
		v, found := row[col]
		if !found || v == nil {
			row[flagCol] = false
			continue
		}
		// coercion already validated over the column values
		number := cast.ToFloat64(v)
		row[flagCol] = isOutlier(number)
	}
	return nil
}

func findFloatParameter(params Parameters, name string, defaultVal float64) (float64, error) {
	valAny, found := params[name]
	if !found {
		return defaultVal, nil
	}
	val, err := cast.ToFloat64E(valAny)
	if err != nil {
		return defaultVal, ErrInvalidParameters
	}
	return val, nil
}

func FlagOutliersStepDefinition() *Definition {
	return &Definition{
		Type:        FlagOutliers,
		Description: "Flags rows with out-of-bound numeric values without deleting them",
		Parameters: []ParameterDefinition{
			{
				Name:          "columns",
				SupportedType: "string list",
				Required:      true,
			},
			{
				Name:          "method",
				SupportedType: "string",
				Default:       MethodZScore,
				Values:        []any{MethodZScore, MethodIQR},
			},
			{
				Name:          "threshold",
				SupportedType: "number",
				Default:       defaultZScoreThreshold,
			},
			{
				Name:          "factor",
				SupportedType: "number",
				Default:       defaultIQRFactor,
			},
			{
				Name:          "flag_suffix",
				SupportedType: "string",
				Default:       defaultFlagSuffix,
			},
		},
	}
}
