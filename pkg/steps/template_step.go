// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// TemplateStep sets a column from a Go template executed per row, with sprig
// functions available. It covers custom normalizations and derived columns
// that the built-in steps don't.
type TemplateStep struct {
	name     string
	column   string
	template *template.Template
}

// TemplateContext is the data exposed to the step template.
type TemplateContext struct {
	// Value is the current value of the target column, nil when missing.
	Value any
	// Row is the full row being transformed.
	Row dataset.Row
}

func NewTemplateStep(name string, params Parameters) (*TemplateStep, error) {
	column, found, err := FindParameter[string](params, "column")
	if err != nil {
		return nil, fmt.Errorf("template: column must be a string: %w", err)
	}
	if !found || column == "" {
		return nil, fmt.Errorf("template: column is required: %w", ErrInvalidParameters)
	}

	templateStr, found, err := FindParameter[string](params, "template")
	if err != nil {
		return nil, fmt.Errorf("template: template must be a string: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("template: template is required: %w", ErrInvalidParameters)
	}

	tmpl, err := template.New(column).Funcs(sprig.TxtFuncMap()).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("template: parsing template: %w", err)
	}

	return &TemplateStep{
		name:     name,
		column:   column,
		template: tmpl,
	}, nil
}

func (s *TemplateStep) Name() string {
	return s.name
}

func (s *TemplateStep) Type() StepType {
	return Template
}

func (s *TemplateStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	out := ds.Clone()
	// the template may introduce a derived column
	out.AddColumn(s.column)

	var buf strings.Builder
	for i, row := range out.Rows {
		buf.Reset()
		if err := s.template.Execute(&buf, &TemplateContext{Value: row[s.column], Row: row}); err != nil {
			return nil, fmt.Errorf("template: executing template on row %d: %w", i, err)
		}
		row[s.column] = buf.String()
	}
	return out, nil
}

func TemplateStepDefinition() *Definition {
	return &Definition{
		Type:        Template,
		Description: "Sets a column from a Go template executed per row",
		Parameters: []ParameterDefinition{
			{
				Name:          "column",
				SupportedType: "string",
				Required:      true,
			},
			{
				Name:          "template",
				SupportedType: "string",
				Required:      true,
			},
		},
	}
}
