// Package csvio decodes collector CSV reports into raw rows and writes them
// back out. Header names are kept verbatim; canonicalizing them is the
// normalizer's job.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"viewpulse/internal/report"
)

// ErrNoHeader is returned for an input without a header row.
var ErrNoHeader = errors.New("csv has no header row")

// Decode reads a header row followed by records. Short records leave trailing
// columns unset and extra cells are ignored, since collector exports are not
// always rectangular. Blank lines are skipped.
func Decode(r io.Reader) ([]report.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []report.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make(report.RawRow, len(header))
		for i, name := range header {
			if i >= len(record) {
				break
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// emptyHeader keeps a snapshot with no rows decodable.
var emptyHeader = []string{"video_id"}

// Encode writes rows with a header made of every key, sorted.
func Encode(w io.Writer, rows []report.RawRow) error {
	header := Header(rows)
	if len(header) == 0 {
		header = emptyHeader
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, name := range header {
			record[i] = row[name]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Header returns the union of row keys in sorted order.
func Header(rows []report.RawRow) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for key := range row {
			seen[key] = struct{}{}
		}
	}
	header := make([]string, 0, len(seen))
	for key := range seen {
		header = append(header, key)
	}
	sort.Strings(header)
	return header
}
