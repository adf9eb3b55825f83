// Package source reads the entities to chart from CSV or YAML files and
// rejects malformed records before they reach the layout engine.
package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gantt2svg/internal/config"
	"gantt2svg/internal/timeline"
	"gantt2svg/internal/validation"
)

// Options tell the loaders how to read a file.
type Options struct {
	Columns config.Columns

	// Location is used for timestamps without a zone; nil means UTC.
	Location *time.Location
}

type entityRecord struct {
	ID        string           `yaml:"id" validate:"required"`
	Label     string           `yaml:"label"`
	Kind      string           `yaml:"kind" validate:"omitempty,oneof=person project trailer"`
	Intervals []intervalRecord `yaml:"intervals" validate:"required,min=1,dive"`
}

type intervalRecord struct {
	Start  string `yaml:"start" validate:"required"`
	End    string `yaml:"end" validate:"required"`
	Status string `yaml:"status" validate:"omitempty,oneof=planned in_progress completed on_hold cancelled"`
	Label  string `yaml:"label"`
}

// Load picks a loader by file extension.
func Load(path string, opts Options) ([]timeline.Entity, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, opts)
	case ".yaml", ".yml":
		return LoadYAML(path, opts)
	}
	return nil, fmt.Errorf("unsupported input file %q: want .csv, .yaml or .yml", path)
}

// timestampFormats are tried in order. Formats without a clock part mark the
// value as a whole day.
var timestampFormats = []struct {
	layout  string
	dayOnly bool
}{
	{time.RFC3339, false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", true},
	{"01/02/2006 15:04:05", false},
	{"01/02/2006 15:04", false},
	{"01/02/2006", true},
	{"02/01/2006 15:04:05", false},
	{"02/01/2006 15:04", false},
	{"02/01/2006", true},
}

// parseTimestamp parses s with the first matching format. A whole-day end
// covers its day, so it is moved to the last millisecond of that day.
func parseTimestamp(s string, end bool, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, f := range timestampFormats {
		var t time.Time
		t, err = time.ParseInLocation(f.layout, s, loc)
		if err != nil {
			continue
		}
		if end && f.dayOnly {
			t = timeline.EndOfDay(t)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp '%s': %w", s, err)
}

// toEntities validates the records and converts them in order.
func toEntities(records []entityRecord, loc *time.Location) ([]timeline.Entity, error) {
	if loc == nil {
		loc = time.UTC
	}
	v, err := validation.New()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	entities := make([]timeline.Entity, 0, len(records))
	for _, rec := range records {
		if err := v.Struct(rec); err != nil {
			return nil, fmt.Errorf("entity %q: %w", rec.ID, err)
		}
		if seen[rec.ID] {
			return nil, fmt.Errorf("entity %q: duplicate id", rec.ID)
		}
		seen[rec.ID] = true

		ent := timeline.Entity{
			ID:        rec.ID,
			Label:     rec.Label,
			Kind:      timeline.Kind(rec.Kind),
			Intervals: make([]timeline.Interval, 0, len(rec.Intervals)),
		}
		if ent.Label == "" {
			ent.Label = rec.ID
		}
		for i, ir := range rec.Intervals {
			start, err := parseTimestamp(ir.Start, false, loc)
			if err != nil {
				return nil, fmt.Errorf("entity %q interval %d start: %w", rec.ID, i, err)
			}
			end, err := parseTimestamp(ir.End, true, loc)
			if err != nil {
				return nil, fmt.Errorf("entity %q interval %d end: %w", rec.ID, i, err)
			}
			iv := timeline.Interval{
				DateRange: timeline.DateRange{Start: start, End: end},
				Label:     ir.Label,
				Status:    timeline.Status(ir.Status),
			}
			if !iv.Valid() {
				return nil, fmt.Errorf("entity %q interval %d: end %s is before start %s", rec.ID, i, ir.End, ir.Start)
			}
			ent.Intervals = append(ent.Intervals, iv)
		}
		entities = append(entities, ent)
	}
	return entities, nil
}
