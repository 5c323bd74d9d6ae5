// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"errors"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// Step is a pure dataset transformation. Apply must not mutate the dataset on
// input, returning a new dataset value instead.
type Step interface {
	Name() string
	Type() StepType
	Apply(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error)
}

// Config identifies a step instance in a pipeline: a unique instance name, the
// step type and its parameters.
type Config struct {
	Name       string
	Type       StepType
	Parameters Parameters
}

type StepType string

const (
	Deduplicate     StepType = "deduplicate"
	StandardizeText StepType = "standardize_text"
	Impute          StepType = "impute"
	FlagOutliers    StepType = "flag_outliers"
	DropFlagged     StepType = "drop_flagged"
	NormalizePhone  StepType = "normalize_phone"
	NormalizeEmail  StepType = "normalize_email"
	RewriteJSON     StepType = "rewrite_json"
	Template        StepType = "template"
)

type Parameters map[string]any

var (
	ErrUnsupportedValueType = errors.New("unsupported value type for step")
	ErrUnsupportedStep      = errors.New("unsupported step config")
	ErrInvalidParameters    = errors.New("invalid step parameters")
	ErrTypeMismatch         = errors.New("step applied to column of the wrong type")
)

// FindParameter returns the parameter with the given name cast to T, whether
// it was present, and an error when present with an incompatible type.
func FindParameter[T any](params Parameters, name string) (T, bool, error) {
	valAny, found := params[name]
	if !found {
		return *new(T), false, nil
	}

	val, ok := valAny.(T)
	if !ok {
		return *new(T), true, ErrInvalidParameters
	}

	return val, true, nil
}

// FindParameterWithDefault behaves like FindParameter, falling back to the
// given default when the parameter is absent.
func FindParameterWithDefault[T any](params Parameters, name string, defaultVal T) (T, error) {
	val, found, err := FindParameter[T](params, name)
	if err != nil {
		return defaultVal, err
	}
	if !found {
		return defaultVal, nil
	}
	return val, nil
}

// FindColumnsParameter accepts both a single column string and a list of
// column names, which is how YAML configs commonly provide them.
func FindColumnsParameter(params Parameters, name string) ([]string, bool, error) {
	valAny, found := params[name]
	if !found {
		return nil, false, nil
	}

	switch v := valAny.(type) {
	case string:
		return []string{v}, true, nil
	case []string:
		return v, true, nil
	case []any:
		columns := make([]string, 0, len(v))
		for _, col := range v {
			colStr, ok := col.(string)
			if !ok {
				return nil, true, ErrInvalidParameters
			}
			columns = append(columns, colStr)
		}
		return columns, true, nil
	default:
		return nil, true, ErrInvalidParameters
	}
}

// Definition describes a step type and the parameters it accepts, used for
// config validation and for the CLI step listing.
type Definition struct {
	Type        StepType
	Description string
	Parameters  []ParameterDefinition
}

type ParameterDefinition struct {
	Name          string
	SupportedType string
	Default       any
	Required      bool
	Values        []any
}
