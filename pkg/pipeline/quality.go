// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"
	"regexp"

	"github.com/scrubkit/scrub/pkg/dataset"
	"github.com/scrubkit/scrub/pkg/steps"
)

// QualityRule is a named, read-only predicate over a dataset. Rules are
// evaluated against the final dataset of a run; a failing rule is a finding,
// never an error.
type QualityRule interface {
	Name() string
	Evaluate(ds *dataset.Dataset) Outcome
}

// Outcome is the result of evaluating one quality rule.
type Outcome struct {
	Rule    string `json:"rule"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// RuleConfig identifies a quality rule instance: a unique name, the rule type
// and its parameters.
type RuleConfig struct {
	Name       string
	Type       RuleType
	Parameters steps.Parameters
}

type RuleType string

const (
	NoDuplicates RuleType = "no_duplicates"
	NoNulls      RuleType = "no_nulls"
	MinRows      RuleType = "min_rows"
	ColumnMatch  RuleType = "column_match"
)

func buildQualityRule(cfg *RuleConfig) (QualityRule, error) {
	name := cfg.Name
	if name == "" {
		name = string(cfg.Type)
	}

	switch cfg.Type {
	case NoDuplicates:
		return &noDuplicatesRule{name: name}, nil
	case NoNulls:
		columns, _, err := steps.FindColumnsParameter(cfg.Parameters, "columns")
		if err != nil {
			return nil, fmt.Errorf("no_nulls: columns must be a list of strings: %w", ErrInvalidRuleConfig)
		}
		return &noNullsRule{name: name, columns: columns}, nil
	case MinRows:
		min, found, err := steps.FindParameter[int](cfg.Parameters, "min")
		if err != nil || !found || min < 0 {
			return nil, fmt.Errorf("min_rows: a non-negative min is required: %w", ErrInvalidRuleConfig)
		}
		return &minRowsRule{name: name, min: min}, nil
	case ColumnMatch:
		column, found, err := steps.FindParameter[string](cfg.Parameters, "column")
		if err != nil || !found || column == "" {
			return nil, fmt.Errorf("column_match: column is required: %w", ErrInvalidRuleConfig)
		}
		patternStr, found, err := steps.FindParameter[string](cfg.Parameters, "pattern")
		if err != nil || !found {
			return nil, fmt.Errorf("column_match: pattern is required: %w", ErrInvalidRuleConfig)
		}
		pattern, err := regexp.Compile(patternStr)
		if err != nil {
			return nil, fmt.Errorf("column_match: compiling pattern: %w", ErrInvalidRuleConfig)
		}
		return &columnMatchRule{name: name, column: column, pattern: pattern}, nil
	default:
		return nil, fmt.Errorf("unknown quality rule type %q: %w", cfg.Type, ErrInvalidRuleConfig)
	}
}

type noDuplicatesRule struct {
	name string
}

func (r *noDuplicatesRule) Name() string { return r.name }

func (r *noDuplicatesRule) Evaluate(ds *dataset.Dataset) Outcome {
	seen := make(map[string]struct{}, ds.RowCount())
	duplicates := 0
	for _, row := range ds.Rows {
		key, err := ds.RowKey(row)
		if err != nil {
			return Outcome{Rule: r.name, Passed: false, Message: fmt.Sprintf("rule evaluation failed: %v", err)}
		}
		if _, found := seen[key]; found {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
	}
	if duplicates > 0 {
		return Outcome{Rule: r.name, Passed: false, Message: fmt.Sprintf("found %d duplicate rows", duplicates)}
	}
	return Outcome{Rule: r.name, Passed: true, Message: "no duplicate rows"}
}

type noNullsRule struct {
	name string
	// columns to check; empty means all declared columns
	columns []string
}

func (r *noNullsRule) Name() string { return r.name }

func (r *noNullsRule) Evaluate(ds *dataset.Dataset) Outcome {
	columns := r.columns
	if len(columns) == 0 {
		columns = ds.Columns
	}

	nulls := 0
	for _, col := range columns {
		count, err := ds.ColumnNullCount(col)
		if err != nil {
			return Outcome{Rule: r.name, Passed: false, Message: fmt.Sprintf("rule evaluation failed: %v", err)}
		}
		nulls += count
	}
	if nulls > 0 {
		return Outcome{Rule: r.name, Passed: false, Message: fmt.Sprintf("found %d missing values", nulls)}
	}
	return Outcome{Rule: r.name, Passed: true, Message: "no missing values"}
}

type minRowsRule struct {
	name string
	min  int
}

func (r *minRowsRule) Name() string { return r.name }

func (r *minRowsRule) Evaluate(ds *dataset.Dataset) Outcome {
	if ds.RowCount() < r.min {
		return Outcome{Rule: r.name, Passed: false, Message: fmt.Sprintf("dataset has %d rows, expected at least %d", ds.RowCount(), r.min)}
	}
	return Outcome{Rule: r.name, Passed: true, Message: fmt.Sprintf("dataset has %d rows", ds.RowCount())}
}

type columnMatchRule struct {
	name    string
	column  string
	pattern *regexp.Regexp
}

func (r *columnMatchRule) Name() string { return r.name }

func (r *columnMatchRule) Evaluate(ds *dataset.Dataset) Outcome {
	if !ds.HasColumn(r.column) {
		return Outcome{Rule: r.name, Passed: false, Message: fmt.Sprintf("rule evaluation failed: %v: %s", dataset.ErrColumnNotFound, r.column)}
	}

	mismatches := 0
	for _, row := range ds.Rows {
		v, found := row[r.column]
		if !found || v == nil {
			continue
		}
		str, ok := v.(string)
		if !ok || !r.pattern.MatchString(str) {
			mismatches++
		}
	}
	if mismatches > 0 {
		return Outcome{Rule: r.name, Passed: false, Message: fmt.Sprintf("%d values in column %q do not match %q", mismatches, r.column, r.pattern.String())}
	}
	return Outcome{Rule: r.name, Passed: true, Message: fmt.Sprintf("all values in column %q match %q", r.column, r.pattern.String())}
}
