// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	mathlib "github.com/scrubkit/scrub/internal/math"
	"github.com/scrubkit/scrub/pkg/dataset"
)

// ImputeStep replaces missing values per column following a strategy declared
// at configuration time. Mean and median strategies require numeric columns.
// Columns with no non-missing values are left untouched.
type ImputeStep struct {
	name  string
	rules []ImputeRule
}

type ImputeRule struct {
	Column   string `mapstructure:"column"`
	Strategy string `mapstructure:"strategy"`
	// Value is the replacement for the constant strategy, ignored otherwise.
	Value any `mapstructure:"value"`
}

const (
	StrategyConstant     = "constant"
	StrategyMean         = "mean"
	StrategyMedian       = "median"
	StrategyMostFrequent = "most_frequent"
)

func NewImputeStep(name string, params Parameters) (*ImputeStep, error) {
	rulesAny, found := params["columns"]
	if !found {
		return nil, fmt.Errorf("impute: columns is required: %w", ErrInvalidParameters)
	}

	var rules []ImputeRule
	if err := mapstructure.Decode(rulesAny, &rules); err != nil {
		return nil, fmt.Errorf("impute: decoding columns: %w", ErrInvalidParameters)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("impute: columns must not be empty: %w", ErrInvalidParameters)
	}

	for _, rule := range rules {
		switch rule.Strategy {
		case StrategyConstant:
			if rule.Value == nil {
				return nil, fmt.Errorf("impute: constant strategy for column %q requires a value: %w", rule.Column, ErrInvalidParameters)
			}
		case StrategyMean, StrategyMedian, StrategyMostFrequent:
		default:
			return nil, fmt.Errorf("impute: unknown strategy %q for column %q: %w", rule.Strategy, rule.Column, ErrInvalidParameters)
		}
		if rule.Column == "" {
			return nil, fmt.Errorf("impute: column name must not be empty: %w", ErrInvalidParameters)
		}
	}

	return &ImputeStep{
		name:  name,
		rules: rules,
	}, nil
}

func (s *ImputeStep) Name() string {
	return s.name
}

func (s *ImputeStep) Type() StepType {
	return Impute
}

func (s *ImputeStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	for _, rule := range s.rules {
		if !ds.HasColumn(rule.Column) {
			return nil, fmt.Errorf("impute: %w: %s", dataset.ErrColumnNotFound, rule.Column)
		}
	}

	out := ds.Clone()
	for _, rule := range s.rules {
		replacement, err := s.replacementValue(out, rule)
		if err != nil {
			return nil, err
		}
		if replacement == nil {
			// no non-missing values to derive a replacement from
			continue
		}
		for _, row := range out.Rows {
			if v, found := row[rule.Column]; !found || v == nil {
				row[rule.Column] = replacement
			}
		}
	}
	return out, nil
}

func (s *ImputeStep) replacementValue(ds *dataset.Dataset, rule ImputeRule) (any, error) {
	if rule.Strategy == StrategyConstant {
		return rule.Value, nil
	}

	values := ds.ColumnValues(rule.Column)
	if len(values) == 0 {
		return nil, nil
	}

	switch rule.Strategy {
	case StrategyMean, StrategyMedian:
		numbers, err := toFloats(values)
		if err != nil {
			return nil, fmt.Errorf("impute: column %q requires numeric values for the %s strategy: %w", rule.Column, rule.Strategy, ErrTypeMismatch)
		}
		if rule.Strategy == StrategyMean {
			return mathlib.Average(numbers), nil
		}
		return mathlib.Median(numbers), nil
	case StrategyMostFrequent:
		keys := make([]string, 0, len(values))
		byKey := make(map[string]any, len(values))
		for _, v := range values {
			key := cast.ToString(v)
			keys = append(keys, key)
			if _, found := byKey[key]; !found {
				byKey[key] = v
			}
		}
		winner, _ := mathlib.MostFrequent(keys)
		return byKey[winner], nil
	default:
		return nil, fmt.Errorf("impute: unknown strategy %q: %w", rule.Strategy, ErrInvalidParameters)
	}
}

func toFloats(values []any) ([]float64, error) {
	numbers := make([]float64, 0, len(values))
	for _, v := range values {
		number, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, number)
	}
	return numbers, nil
}

func ImputeStepDefinition() *Definition {
	return &Definition{
		Type:        Impute,
		Description: "Replaces missing values per column using a declared strategy",
		Parameters: []ParameterDefinition{
			{
				Name:          "columns",
				SupportedType: "list of {column, strategy, value}",
				Required:      true,
			},
		},
	}
}
