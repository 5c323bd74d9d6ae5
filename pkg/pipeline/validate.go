// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"
	"strings"

	"github.com/scrubkit/scrub/pkg/dataset"
)

// Validate builds the given quality rules and evaluates them against the
// dataset. A failing rule is reported as an outcome, not an error; only an
// invalid rule configuration or an unusable dataset produces an error.
func Validate(cfgs []RuleConfig, ds *dataset.Dataset) (*ValidationReport, error) {
	if ds == nil {
		return nil, ErrNilDataset
	}
	if len(ds.Columns) == 0 {
		return nil, ErrEmptySchema
	}

	report := &ValidationReport{
		Outcomes: make([]Outcome, 0, len(cfgs)),
	}
	for _, cfg := range cfgs {
		rule, err := buildQualityRule(&cfg)
		if err != nil {
			return nil, err
		}
		report.Outcomes = append(report.Outcomes, rule.Evaluate(ds))
	}
	return report, nil
}

// ValidationReport is the outcome of evaluating quality rules on their own,
// without running any cleaning steps.
type ValidationReport struct {
	Outcomes []Outcome `json:"quality_report"`
}

func (r *ValidationReport) Failed() int {
	failed := 0
	for _, outcome := range r.Outcomes {
		if !outcome.Passed {
			failed++
		}
	}
	return failed
}

func (r *ValidationReport) PrettyPrint() string {
	var sb strings.Builder
	for _, outcome := range r.Outcomes {
		status := "PASS"
		if !outcome.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", status, outcome.Rule, outcome.Message)
	}
	fmt.Fprintf(&sb, "%d/%d rules passed", len(r.Outcomes)-r.Failed(), len(r.Outcomes))
	return sb.String()
}
