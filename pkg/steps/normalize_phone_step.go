// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// NormalizePhoneStep normalizes Spanish phone numbers to +34-XXX-XXX-XXX.
// Any formatting is accepted on input; after stripping non-digits and an
// optional country prefix, the number must be 9 digits starting with 6-9.
// What happens to numbers that fail that check is a configured policy.
type NormalizePhoneStep struct {
	name       string
	columns    []string
	onInvalid  string
	flagSuffix string
}

// Invalid-value policies shared by the normalization steps.
const (
	OnInvalidNull = "null" // replace with a missing value
	OnInvalidKeep = "keep" // leave the original value untouched
	OnInvalidFlag = "flag" // keep the value, mark it in a flag column

	defaultInvalidSuffix = "_invalid"
)

var (
	nonDigits     = regexp.MustCompile(`[^\d]`)
	mobileOrFixed = regexp.MustCompile(`^[6-9]`)
)

func NewNormalizePhoneStep(name string, params Parameters) (*NormalizePhoneStep, error) {
	columns, found, err := FindColumnsParameter(params, "columns")
	if err != nil {
		return nil, fmt.Errorf("normalize_phone: columns must be a list of strings: %w", err)
	}
	if !found || len(columns) == 0 {
		return nil, fmt.Errorf("normalize_phone: columns is required: %w", ErrInvalidParameters)
	}

	onInvalid, flagSuffix, err := findInvalidPolicy(params)
	if err != nil {
		return nil, fmt.Errorf("normalize_phone: %w", err)
	}

	return &NormalizePhoneStep{
		name:       name,
		columns:    columns,
		onInvalid:  onInvalid,
		flagSuffix: flagSuffix,
	}, nil
}

func (s *NormalizePhoneStep) Name() string {
	return s.name
}

func (s *NormalizePhoneStep) Type() StepType {
	return NormalizePhone
}

func (s *NormalizePhoneStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	for _, col := range s.columns {
		if !ds.HasColumn(col) {
			return nil, fmt.Errorf("normalize_phone: %w: %s", dataset.ErrColumnNotFound, col)
		}
	}

	out := ds.Clone()
	for _, col := range s.columns {
		applyNormalization(out, col, s.onInvalid, s.flagSuffix, normalizePhone)
	}
	return out, nil
}

// normalizePhone returns the normalized number and whether the input was a
// valid Spanish phone number.
func normalizePhone(str string) (string, bool) {
	digits := nonDigits.ReplaceAllString(str, "")

	if len(digits) < 9 || len(digits) > 11 {
		return "", false
	}

	switch {
	case strings.HasPrefix(digits, "34") && len(digits) == 11:
		digits = digits[2:]
	case strings.HasPrefix(digits, "0034"):
		digits = digits[4:]
	}

	if len(digits) != 9 || !mobileOrFixed.MatchString(digits) {
		return "", false
	}

	return fmt.Sprintf("+34-%s-%s-%s", digits[:3], digits[3:6], digits[6:9]), true
}

// applyNormalization runs a string normalization over a column, handling
// non-string and invalid values per the configured policy. Missing values
// stay missing.
func applyNormalization(ds *dataset.Dataset, col, onInvalid, flagSuffix string, normalize func(string) (string, bool)) {
	flagCol := col + flagSuffix
	if onInvalid == OnInvalidFlag {
		ds.AddColumn(flagCol)
	}

	for _, row := range ds.Rows {
		v, found := row[col]
		if !found || v == nil {
			if onInvalid == OnInvalidFlag {
				row[flagCol] = false
			}
			continue
		}

		normalized, valid := "", false
		if str, ok := v.(string); ok {
			normalized, valid = normalize(str)
		}

		switch {
		case valid:
			row[col] = normalized
			if onInvalid == OnInvalidFlag {
				row[flagCol] = false
			}
		case onInvalid == OnInvalidNull:
			row[col] = nil
		case onInvalid == OnInvalidFlag:
			row[flagCol] = true
		}
	}
}

func findInvalidPolicy(params Parameters) (onInvalid, flagSuffix string, err error) {
	onInvalid, err = FindParameterWithDefault(params, "on_invalid", OnInvalidNull)
	if err != nil {
		return "", "", fmt.Errorf("on_invalid must be a string: %w", err)
	}
	switch onInvalid {
	case OnInvalidNull, OnInvalidKeep, OnInvalidFlag:
	default:
		return "", "", fmt.Errorf("unknown on_invalid policy %q: %w", onInvalid, ErrInvalidParameters)
	}

	flagSuffix, err = FindParameterWithDefault(params, "flag_suffix", defaultInvalidSuffix)
	if err != nil {
		return "", "", fmt.Errorf("flag_suffix must be a string: %w", err)
	}
	return onInvalid, flagSuffix, nil
}

func NormalizePhoneStepDefinition() *Definition {
	return &Definition{
		Type:        NormalizePhone,
		Description: "Normalizes Spanish phone numbers to +34-XXX-XXX-XXX",
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
