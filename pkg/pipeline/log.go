// SPDX-License-Identifier: Apache-2.0

package pipeline

import "time"

// LogEntry records what one step changed. Entries are appended once per step
// execution and never mutated afterwards; the slice is owned exclusively by
// one run.
type LogEntry struct {
	StepName    string    `json:"step_name"`
	StepType    string    `json:"step_type"`
	RowsBefore  int       `json:"rows_before"`
	RowsAfter   int       `json:"rows_after"`
	NullsBefore int       `json:"nulls_before"`
	NullsAfter  int       `json:"nulls_after"`
	Timestamp   time.Time `json:"timestamp"`
}
