// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"fmt"
	"strings"
	"time"

	jsonlib "github.com/scrubkit/scrub/internal/json"
	"github.com/scrubkit/scrub/pkg/dataset"
)

// Result is the output of one pipeline run: the cleaned dataset, the
// transformation log and the quality report.
type Result struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Dataset    *dataset.Dataset `json:"-"`
	Log        []LogEntry       `json:"transformations"`
	Outcomes   []Outcome        `json:"quality_report"`
	Summary    Summary          `json:"summary"`
}

type Summary struct {
	RowsIn      int `json:"rows_in"`
	RowsOut     int `json:"rows_out"`
	NullsIn     int `json:"nulls_in"`
	NullsOut    int `json:"nulls_out"`
	StepsRun    int `json:"steps_run"`
	RulesFailed int `json:"rules_failed"`
}

// FailedOutcomes returns the outcomes of the quality rules that did not pass.
func (r *Result) FailedOutcomes() []Outcome {
	failed := make([]Outcome, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		if !outcome.Passed {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Report renders the run as an indented JSON document for auditing.
func (r *Result) Report() ([]byte, error) {
	report, err := jsonlib.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling run report: %w", err)
	}
	return report, nil
}

func (r *Result) PrettyPrint() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "run %s: %d -> %d rows, %d -> %d missing values, %d steps\n",
		r.RunID, r.Summary.RowsIn, r.Summary.RowsOut, r.Summary.NullsIn, r.Summary.NullsOut, r.Summary.StepsRun)
	for _, outcome := range r.Outcomes {
		status := "PASS"
		if !outcome.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "%s %s: %s\n", status, outcome.Rule, outcome.Message)
	}
	return sb.String()
}
