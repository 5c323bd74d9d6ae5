// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// StandardizeTextStep trims leading/trailing whitespace, collapses internal
// whitespace runs to a single space and applies a case policy to the
// configured text columns. Non-string cells are left untouched.
type StandardizeTextStep struct {
	name       string
	columns    []string
	casePolicy string
	trimSpaces bool
	titleCaser cases.Caser
}

const (
	CaseLower = "lower"
	CaseUpper = "upper"
	CaseTitle = "title"
	CaseNone  = "none"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

func NewStandardizeTextStep(name string, params Parameters) (*StandardizeTextStep, error) {
	columns, found, err := FindColumnsParameter(params, "columns")
	if err != nil {
		return nil, fmt.Errorf("standardize_text: columns must be a list of strings: %w", err)
	}
	if !found || len(columns) == 0 {
		return nil, fmt.Errorf("standardize_text: columns is required: %w", ErrInvalidParameters)
	}

	casePolicy, err := FindParameterWithDefault(params, "case", CaseNone)
	if err != nil {
		return nil, fmt.Errorf("standardize_text: case must be a string: %w", err)
	}
	switch casePolicy {
	case CaseLower, CaseUpper, CaseTitle, CaseNone:
	default:
		return nil, fmt.Errorf("standardize_text: unknown case policy %q: %w", casePolicy, ErrInvalidParameters)
	}

	trimSpaces, err := FindParameterWithDefault(params, "trim_spaces", true)
	if err != nil {
		return nil, fmt.Errorf("standardize_text: trim_spaces must be a boolean: %w", err)
	}

	langTag, err := FindParameterWithDefault(params, "language", "und")
	if err != nil {
		return nil, fmt.Errorf("standardize_text: language must be a string: %w", err)
	}
	lang, err := language.Parse(langTag)
	if err != nil {
		return nil, fmt.Errorf("standardize_text: parsing language tag %q: %w", langTag, ErrInvalidParameters)
	}

	return &StandardizeTextStep{
		name:       name,
		columns:    columns,
		casePolicy: casePolicy,
		trimSpaces: trimSpaces,
		titleCaser: cases.Title(lang),
	}, nil
}

func (s *StandardizeTextStep) Name() string {
	return s.name
}

func (s *StandardizeTextStep) Type() StepType {
	return StandardizeText
}

func (s *StandardizeTextStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	for _, col := range s.columns {
		if !ds.HasColumn(col) {
			return nil, fmt.Errorf("standardize_text: %w: %s", dataset.ErrColumnNotFound, col)
		}
	}

	out := ds.Clone()
	for _, row := range out.Rows {
		for _, col := range s.columns {
			str, ok := row[col].(string)
			if !ok {
				continue
			}
			row[col] = s.standardize(str)
		}
	}
	return out, nil
}

func (s *StandardizeTextStep) standardize(str string) string {
	if s.trimSpaces {
		str = strings.TrimSpace(str)
		str = whitespaceRun.ReplaceAllString(str, " ")
	}

	switch s.casePolicy {
	case CaseLower:
		return strings.ToLower(str)
	case CaseUpper:
		return strings.ToUpper(str)
	case CaseTitle:
		return s.titleCaser.String(str)
	default:
		return str
	}
}

func StandardizeTextStepDefinition() *Definition {
	return &Definition{
		Type:        StandardizeText,
		Description: "Trims and collapses whitespace and applies a case policy to text columns",
		Parameters: []ParameterDefinition{
			{
				Name:          "columns",
				SupportedType: "string list",
				Required:      true,
			},
			{
				Name:          "case",
				SupportedType: "string",
				Default:       CaseNone,
				Values:        []any{CaseLower, CaseUpper, CaseTitle, CaseNone},
			},
			{
				Name:          "trim_spaces",
				SupportedType: "boolean",
				Default:       true,
			},
			{
				Name:          "language",
				SupportedType: "string",
				Default:       "und",
			},
		},
	}
}
