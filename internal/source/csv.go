package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gantt2svg/internal/timeline"
)

// LoadCSV reads one interval per row. Rows sharing an id form one entity;
// entities keep the order in which their id first appears.
func LoadCSV(path string, opts Options) ([]timeline.Entity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file, opts)
}

// ReadCSV is LoadCSV over an already open reader.
func ReadCSV(r io.Reader, opts Options) ([]timeline.Entity, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{opts.Columns.ID, opts.Columns.Start, opts.Columns.End} {
		if _, ok := columnMap[strings.ToLower(required)]; !ok {
			return nil, fmt.Errorf("column '%s' not found in CSV. Available columns: %v", required, header)
		}
	}

	field := func(record []string, name string) string {
		if name == "" {
			return ""
		}
		i, ok := columnMap[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		records []entityRecord
		index   = make(map[string]int)
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		id := field(record, opts.Columns.ID)
		if id == "" {
			return nil, fmt.Errorf("line %d: empty %s", line, opts.Columns.ID)
		}
		i, ok := index[id]
		if !ok {
			i = len(records)
			index[id] = i
			records = append(records, entityRecord{ID: id})
		}
		rec := &records[i]
		if rec.Label == "" {
			rec.Label = field(record, opts.Columns.Label)
		}
		if rec.Kind == "" {
			rec.Kind = strings.ToLower(field(record, opts.Columns.Kind))
		}
		rec.Intervals = append(rec.Intervals, intervalRecord{
			Start:  field(record, opts.Columns.Start),
			End:    field(record, opts.Columns.End),
			Status: strings.ToLower(field(record, opts.Columns.Status)),
			Label:  field(record, opts.Columns.Title),
		})
	}

	return toEntities(records, opts.Location)
}
