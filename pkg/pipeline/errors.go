// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"errors"
	"fmt"
)

var (
	// configuration errors, detected at construction
	ErrNoSteps           = errors.New("pipeline requires at least one step")
	ErrDuplicateStepName = errors.New("duplicate step name in pipeline")
	ErrInvalidRuleConfig = errors.New("invalid quality rule configuration")

	// input errors, detected when a run starts
	ErrNilDataset  = errors.New("dataset must not be nil")
	ErrEmptySchema = errors.New("dataset must declare at least one column")
)

// StepError reports a step failure during a run. It carries the log entries
// of the steps that completed before the failure, so a partial run stays
// diagnosable.
type StepError struct {
	StepName string
	Log      []LogEntry
	cause    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed after %d completed steps: %v", e.StepName, len(e.Log), e.cause)
}

func (e *StepError) Unwrap() error {
	return e.cause
}
