package timeline

import (
	"fmt"
	"time"
)

// lastInstant is the offset of the inclusive end of a window from the start of the next one.
const lastInstant = time.Millisecond

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of the calendar day of t.
func EndOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-lastInstant)
}

// startOfWeek returns Monday 00:00 of the ISO week containing t.
func startOfWeek(t time.Time) time.Time {
	w := int(t.Weekday())
	if w == 0 {
		w = 7
	}
	return time.Date(t.Year(), t.Month(), t.Day()-w+1, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// ComputeWindow derives the visible window for a zoom level and a reference date.
// The window is closed: its End is the last millisecond of the period.
//   - day: the calendar day of reference
//   - week: Monday through Sunday of the ISO week containing reference
//   - month: the first through the last day of the month
//   - year: January 1 through December 31
//
// Boundaries are computed in reference's location.
func ComputeWindow(g Granularity, reference time.Time) (DateRange, error) {
	var start, next time.Time
	switch g {
	case Day:
		start = startOfDay(reference)
		next = start.AddDate(0, 0, 1)
	case Week:
		start = startOfWeek(reference)
		next = start.AddDate(0, 0, 7)
	case Month:
		start = startOfMonth(reference)
		// Day 0 of the following month normalizes to the last day of this one.
		last := time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, start.Location())
		next = last.AddDate(0, 0, 1)
	case Year:
		start = startOfYear(reference)
		next = start.AddDate(1, 0, 0)
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownGranularity, g)
	}
	return DateRange{Start: start, End: next.Add(-lastInstant)}, nil
}

// Window is ComputeWindow for the viewport.
func (v Viewport) Window() (DateRange, error) {
	return ComputeWindow(v.Granularity, v.Reference)
}

// Today returns the viewport of granularity g that contains now.
func Today(g Granularity, now time.Time) Viewport {
	return Viewport{Granularity: g, Reference: startOfDay(now)}
}

// Step moves the viewport by n windows; negative n moves back.
// Month steps start from the first of the month, so January 31 plus one
// month is in February.
func (v Viewport) Step(n int) Viewport {
	ref := v.Reference
	switch v.Granularity {
	case Day:
		ref = startOfDay(ref).AddDate(0, 0, n)
	case Week:
		ref = startOfWeek(ref).AddDate(0, 0, 7*n)
	case Month:
		ref = startOfMonth(ref).AddDate(0, n, 0)
	case Year:
		ref = startOfYear(ref).AddDate(n, 0, 0)
	}
	return Viewport{Granularity: v.Granularity, Reference: ref}
}

// Label is the caption shown above the chart.
func (v Viewport) Label() string {
	switch v.Granularity {
	case Day:
		return v.Reference.Format("Mon 2 Jan 2006")
	case Week:
		return "Week of " + startOfWeek(v.Reference).Format("2 Jan 2006")
	case Month:
		return v.Reference.Format("January 2006")
	case Year:
		return v.Reference.Format("2006")
	}
	return string(v.Granularity)
}

// Cell is one header subdivision of the window: an hour, a day or a month.
type Cell struct {
	DateRange
	Label        string
	StartPercent float64
	WidthPercent float64
}

// Cells splits the viewport window into header cells: 24 hours for a day,
// 7 days for a week, every day of a month and 12 months for a year.
// Cell widths add up to 100.
func Cells(v Viewport) ([]Cell, error) {
	window, err := v.Window()
	if err != nil {
		return nil, err
	}

	var (
		step   func(time.Time) time.Time
		layout string
	)
	switch v.Granularity {
	case Day:
		step = func(t time.Time) time.Time { return t.Add(time.Hour) }
		layout = "15:04"
	case Week:
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		layout = "Mon 2"
	case Month:
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		layout = "2"
	case Year:
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
		layout = "Jan"
	}

	span := float64(window.Duration())
	var cells []Cell
	for start := window.Start; !start.After(window.End); {
		next := step(start)
		end := next.Add(-lastInstant)
		if end.After(window.End) {
			end = window.End
		}
		// The last cell stops at the window end so widths sum to exactly 100.
		width := next.Sub(start)
		if next.After(window.End) {
			width = window.End.Sub(start)
		}
		cells = append(cells, Cell{
			DateRange:    DateRange{Start: start, End: end},
			Label:        start.Format(layout),
			StartPercent: float64(start.Sub(window.Start)) / span * 100,
			WidthPercent: float64(width) / span * 100,
		})
		start = next
	}
	return cells, nil
}
