// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"errors"
	"fmt"
	"slices"

	jsonlib "github.com/scrubkit/scrub/internal/json"
)

// Dataset is an ordered, in-memory table. Missing values are represented as
// nil cells. Datasets are treated as values: operations that change a dataset
// work on a clone and leave the receiver untouched.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Row maps column name to cell value. Columns absent from the map are
// considered missing, same as nil values.
type Row map[string]any

var ErrColumnNotFound = errors.New("column not found in dataset")

func New(columns ...string) *Dataset {
	return &Dataset{
		Columns: columns,
		Rows:    []Row{},
	}
}

func (d *Dataset) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// NullCount returns the total amount of missing cells across all declared
// columns.
func (d *Dataset) NullCount() int {
	if d == nil {
		return 0
	}
	count := 0
	for _, row := range d.Rows {
		for _, col := range d.Columns {
			if v, found := row[col]; !found || v == nil {
				count++
			}
		}
	}
	return count
}

// ColumnNullCount returns the amount of missing cells in the given column.
func (d *Dataset) ColumnNullCount(column string) (int, error) {
	if !d.HasColumn(column) {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	count := 0
	for _, row := range d.Rows {
		if v, found := row[column]; !found || v == nil {
			count++
		}
	}
	return count, nil
}

func (d *Dataset) HasColumn(column string) bool {
	return d != nil && slices.Contains(d.Columns, column)
}

// AddColumn declares a new column at the end of the column list. It is a
// noop if the column already exists.
func (d *Dataset) AddColumn(column string) {
	if d.HasColumn(column) {
		return
	}
	d.Columns = append(d.Columns, column)
}

// ColumnValues returns the non-missing values of the given column in row
// order.
func (d *Dataset) ColumnValues(column string) []any {
	values := make([]any, 0, len(d.Rows))
	for _, row := range d.Rows {
		if v, found := row[column]; found && v != nil {
			values = append(values, v)
		}
	}
	return values
}

// Clone returns a deep copy of the dataset. Cell values are copied by
// assignment, so they must be treated as immutable by callers.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	clone := &Dataset{
		Columns: slices.Clone(d.Columns),
		Rows:    make([]Row, 0, len(d.Rows)),
	}
	for _, row := range d.Rows {
		cloneRow := make(Row, len(row))
		for k, v := range row {
			cloneRow[k] = v
		}
		clone.Rows = append(clone.Rows, cloneRow)
	}
	return clone
}

// RowKey returns a canonical encoding of the row restricted to the declared
// columns. Two rows are exact duplicates iff their keys are equal.
func (d *Dataset) RowKey(row Row) (string, error) {
	values := make([]any, 0, len(d.Columns))
	for _, col := range d.Columns {
		values = append(values, row[col])
	}
	key, err := jsonlib.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding row key: %w", err)
	}
	return string(key), nil
}

// Equal reports whether both datasets have the same columns and the same rows
// in the same order.
func (d *Dataset) Equal(other *Dataset) bool {
	if d == nil || other == nil {
		return d == other
	}
	if !slices.Equal(d.Columns, other.Columns) {
		return false
	}
	if len(d.Rows) != len(other.Rows) {
		return false
	}
	for i := range d.Rows {
		dKey, err := d.RowKey(d.Rows[i])
		if err != nil {
			return false
		}
		otherKey, err := other.RowKey(other.Rows[i])
		if err != nil {
			return false
		}
		if dKey != otherKey {
			return false
		}
	}
	return true
}
