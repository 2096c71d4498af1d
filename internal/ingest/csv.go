// Package ingest reads one-hot survey CSV exports: a header row followed by
// one data row per respondent.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Survey holds the raw contents of a one-hot CSV export.
type Survey struct {
	Header []string
	Rows   [][]string
}

// ReadFile reads a one-hot CSV file. Cell-level interpretation (truthiness,
// family grouping) belongs to the decoder, not here.
func ReadFile(path string) (*Survey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // decoder reports shape mismatches with detail

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv needs a header row and at least one data row, got %d rows", len(records))
	}

	return &Survey{
		Header: records[0],
		Rows:   records[1:],
	}, nil
}

// Row returns the 1-based respondent row.
func (s *Survey) Row(n int) ([]string, error) {
	if n < 1 || n > len(s.Rows) {
		return nil, fmt.Errorf("row %d out of range (file has %d data rows)", n, len(s.Rows))
	}
	return s.Rows[n-1], nil
}
