// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// NormalizeEmailStep trims and lowercases email addresses and validates them
// against a permissive address pattern. Invalid addresses are handled per the
// configured policy.
type NormalizeEmailStep struct {
	name       string
	columns    []string
	onInvalid  string
	flagSuffix string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func NewNormalizeEmailStep(name string, params Parameters) (*NormalizeEmailStep, error) {
	columns, found, err := FindColumnsParameter(params, "columns")
	if err != nil {
		return nil, fmt.Errorf("normalize_email: columns must be a list of strings: %w", err)
	}
	if !found || len(columns) == 0 {
		return nil, fmt.Errorf("normalize_email: columns is required: %w", ErrInvalidParameters)
	}

	onInvalid, flagSuffix, err := findInvalidPolicy(params)
	if err != nil {
		return nil, fmt.Errorf("normalize_email: %w", err)
	}

	return &NormalizeEmailStep{
		name:       name,
		columns:    columns,
		onInvalid:  onInvalid,
		flagSuffix: flagSuffix,
	}, nil
}

func (s *NormalizeEmailStep) Name() string {
	return s.name
}

func (s *NormalizeEmailStep) Type() StepType {
	return NormalizeEmail
}

func (s *NormalizeEmailStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	for _, col := range s.columns {
		if !ds.HasColumn(col) {
			return nil, fmt.Errorf("normalize_email: %w: %s", dataset.ErrColumnNotFound, col)
		}
	}

	out := ds.Clone()
	for _, col := range s.columns {
		applyNormalization(out, col, s.onInvalid, s.flagSuffix, normalizeEmail)
	}
	return out, nil
}

func normalizeEmail(str string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(str))
	if !emailPattern.MatchString(email) {
		return "", false
	}
	return email, true
}

func NormalizeEmailStepDefinition() *Definition {
	return &Definition{
		Type:        NormalizeEmail,
		Description: "Trims, lowercases and validates email addresses",
		Parameters: []ParameterDefinition{
			{
				Name:          "columns",
				SupportedType: "string list",
				Required:      true,
			},
			{
				Name:          "on_invalid",
				SupportedType: "string",
				Default:       OnInvalidNull,
				Values:        []any{OnInvalidNull, OnInvalidKeep, OnInvalidFlag},
			},
			{
				Name:          "flag_suffix",
				SupportedType: "string",
				Default:       defaultInvalidSuffix,
			},
		},
	}
}
