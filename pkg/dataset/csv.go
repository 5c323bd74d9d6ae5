// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cast"
)

// CSVOptions controls how delimited text is mapped to and from a Dataset.
// Empty cells are read as missing values and missing values are written as
// empty cells.
type CSVOptions struct {
	Delimiter rune
	// NoHeader treats the first record as data and names columns col_1..col_n.
	NoHeader bool
}

var errEmptyInput = errors.New("csv input contains no records")

func (o *CSVOptions) delimiter() rune {
	if o == nil || o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

func (o *CSVOptions) noHeader() bool {
	return o != nil && o.NoHeader
}

// ReadCSV loads delimited text into a Dataset. All cell values are strings;
// type coercion is left to the steps that need it.
func ReadCSV(r io.Reader, opts *CSVOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = opts.delimiter()
	reader.TrimLeadingSpace = false

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv records: %w", err)
	}
	if len(records) == 0 {
		return nil, errEmptyInput
	}

	var columns []string
	if opts.noHeader() {
		columns = make([]string, len(records[0]))
		for i := range records[0] {
			columns[i] = fmt.Sprintf("col_%d", i+1)
		}
	} else {
		columns = records[0]
		records = records[1:]
	}

	ds := New(columns...)
	for _, record := range records {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i >= len(record) || record[i] == "" {
				row[col] = nil
				continue
			}
			row[col] = record[i]
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// WriteCSV writes the dataset as delimited text, header first. The onRow
// callback, if not nil, is invoked after each data record is written.
func WriteCSV(w io.Writer, ds *Dataset, opts *CSVOptions, onRow func()) error {
	writer := csv.NewWriter(w)
	writer.Comma = opts.delimiter()

	if !opts.noHeader() {
		if err := writer.Write(ds.Columns); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}

	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			v, found := row[col]
			if !found || v == nil {
				record[i] = ""
				continue
			}
			record[i] = cast.ToString(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
		if onRow != nil {
			onRow()
		}
	}

	writer.Flush()
	return writer.Error()
}
