// Package loader parses uploaded tabular files into the row maps the
// schema validator consumes. It knows nothing about which columns a
// dataset needs; that is the validator's job.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV parses CSV data whose first row is the header. Each subsequent
// row becomes a map from column name to cell value; empty cells map to
// empty strings. Every returned row carries exactly the header's keys.
func ReadCSV(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}

	var rows []map[string]string
	for line := 2; ; line++ {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = cells[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
