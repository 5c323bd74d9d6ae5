// SPDX-License-Identifier: Apache-2.0

package steps

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// RewriteJSONStep cleans up values nested inside a JSON-encoded text column,
// applying an ordered list of set/delete operations per row. Set operations
// may provide a literal value or a template over the current value at the
// path, which covers trimming and case normalization of nested fields.
type RewriteJSONStep struct {
	name       string
	column     string
	operations []*jsonOperation
}

type jsonOperation struct {
	Op            string `mapstructure:"op"`
	Path          string `mapstructure:"path"`
	Value         any    `mapstructure:"value"`
	ValueTemplate string `mapstructure:"value_template"`

	tmpl *template.Template
}

const (
	jsonOpSet    = "set"
	jsonOpDelete = "delete"
)

// jsonTemplateContext is the data exposed to set operation templates.
type jsonTemplateContext struct {
	// Value is the current value at the operation path, nil when absent.
	Value any
	// Row is the full row the JSON cell belongs to.
	Row dataset.Row
}

func NewRewriteJSONStep(name string, params Parameters) (*RewriteJSONStep, error) {
	column, found, err := FindParameter[string](params, "column")
	if err != nil {
		return nil, fmt.Errorf("rewrite_json: column must be a string: %w", err)
	}
	if !found || column == "" {
		return nil, fmt.Errorf("rewrite_json: column is required: %w", ErrInvalidParameters)
	}

	opsAny, found := params["operations"]
	if !found {
		return nil, fmt.Errorf("rewrite_json: operations is required: %w", ErrInvalidParameters)
	}
	var operations []*jsonOperation
	if err := mapstructure.Decode(opsAny, &operations); err != nil {
		return nil, fmt.Errorf("rewrite_json: decoding operations: %w", ErrInvalidParameters)
	}
	if len(operations) == 0 {
		return nil, fmt.Errorf("rewrite_json: operations must not be empty: %w", ErrInvalidParameters)
	}

	for idx, op := range operations {
		if op.Path == "" {
			return nil, fmt.Errorf("rewrite_json: operation[%d] requires a path: %w", idx, ErrInvalidParameters)
		}
		switch op.Op {
		case jsonOpDelete:
		case jsonOpSet:
			if op.Value == nil && op.ValueTemplate == "" {
				return nil, fmt.Errorf("rewrite_json: set operation[%d] requires value or value_template: %w", idx, ErrInvalidParameters)
			}
			if op.ValueTemplate != "" {
				tmpl, err := template.New(fmt.Sprintf("op[%d] %s", idx, op.Path)).
					Funcs(sprig.TxtFuncMap()).
					Parse(op.ValueTemplate)
				if err != nil {
					return nil, fmt.Errorf("rewrite_json: parsing template of operation[%d] with path %q: %w", idx, op.Path, err)
				}
				op.tmpl = tmpl
			}
		default:
			return nil, fmt.Errorf("rewrite_json: unknown operation %q, must be one of 'set' or 'delete': %w", op.Op, ErrInvalidParameters)
		}
	}

	return &RewriteJSONStep{
		name:       name,
		column:     column,
		operations: operations,
	}, nil
}

func (s *RewriteJSONStep) Name() string {
	return s.name
}

func (s *RewriteJSONStep) Type() StepType {
	return RewriteJSON
}

func (s *RewriteJSONStep) Apply(_ context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !ds.HasColumn(s.column) {
		return nil, fmt.Errorf("rewrite_json: %w: %s", dataset.ErrColumnNotFound, s.column)
	}

	out := ds.Clone()
	buf := bytes.NewBuffer(nil)
	for i, row := range out.Rows {
		v, found := row[s.column]
		if !found || v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("rewrite_json: column %q row %d: %w", s.column, i, ErrUnsupportedValueType)
		}
		if !gjson.Valid(str) {
			return nil, fmt.Errorf("rewrite_json: column %q row %d contains invalid JSON: %w", s.column, i, ErrUnsupportedValueType)
		}

		rewritten, err := s.rewrite(str, row, buf)
		if err != nil {
			return nil, fmt.Errorf("rewrite_json: column %q row %d: %w", s.column, i, err)
		}
		row[s.column] = rewritten
	}
	return out, nil
}

func (s *RewriteJSONStep) rewrite(doc string, row dataset.Row, buf *bytes.Buffer) (string, error) {
	var err error
	for idx, op := range s.operations {
		switch op.Op {
		case jsonOpDelete:
			doc, err = sjson.Delete(doc, op.Path)
		case jsonOpSet:
			doc, err = s.applySet(doc, op, row, buf)
		}
		if err != nil {
			return "", fmt.Errorf("cannot apply %q operation[%d] with path %s: %w", op.Op, idx, op.Path, err)
		}
	}
	return doc, nil
}

func (s *RewriteJSONStep) applySet(doc string, op *jsonOperation, row dataset.Row, buf *bytes.Buffer) (string, error) {
	if op.tmpl == nil {
		return sjson.Set(doc, op.Path, op.Value)
	}

	current := gjson.Get(doc, op.Path)
	buf.Reset()
	if err := op.tmpl.Execute(buf, &jsonTemplateContext{Value: current.Value(), Row: row}); err != nil {
		return "", fmt.Errorf("executing value template: %w", err)
	}
	return sjson.Set(doc, op.Path, buf.String())
}

func RewriteJSONStepDefinition() *Definition {
	return &Definition{
		Type:        RewriteJSON,
		Description: "Applies set/delete operations to values inside a JSON-encoded text column",
		Parameters: []ParameterDefinition{
			{
				Name:          "column",
				SupportedType: "string",
				Required:      true,
			},
			{
				Name:          "operations",
				SupportedType: "list of {op, path, value, value_template}",
				Required:      true,
			},
		},
	}
}
