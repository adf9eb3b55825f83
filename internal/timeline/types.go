/*
Package timeline implements the Gantt layout engine: window derivation for a
viewport, clipping of date ranges against that window, percent placement and
greedy vertical stacking of overlapping ranges within one entity row.

The engine is pure. Every call builds fresh values and nothing reads the
current time; callers pass the viewport explicitly.
*/
package timeline

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownGranularity is returned for a granularity outside day, week, month and year.
	ErrUnknownGranularity = errors.New("unknown granularity")

	// ErrInvalidInterval is returned for an interval whose start is after its end.
	ErrInvalidInterval = errors.New("interval start is after end")
)

// Granularity is the zoom level of the timeline.
type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// Granularities lists the supported zoom levels from finest to coarsest.
var Granularities = []Granularity{Day, Week, Month, Year}

// ParseGranularity maps a case-insensitive name onto a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
	return g, nil
}

// Valid reports whether g is one of the supported zoom levels.
func (g Granularity) Valid() bool {
	switch g {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

// Kind tells what an entity row stands for. Only the renderer looks at it.
type Kind string

const (
	KindPerson  Kind = "person"
	KindProject Kind = "project"
	KindTrailer Kind = "trailer"
)

// Status is the state of a scheduled interval, used for colouring.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusCancelled  Status = "cancelled"
)

// DateRange is a closed span [Start, End] of calendar time.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (r DateRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Valid reports whether Start <= End.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Overlaps reports whether two closed ranges share at least one instant.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.End.Before(o.Start) && !o.End.Before(r.Start)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s .. %s", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

// Interval is one scheduled span of an entity.
type Interval struct {
	DateRange
	Label  string
	Status Status
}

// Entity is a row of the chart: a team member, a project or a trailer.
type Entity struct {
	ID        string
	Label     string
	Kind      Kind
	Intervals []Interval
}

// Viewport is the visible window, given by a zoom level and a date inside it.
type Viewport struct {
	Granularity Granularity
	Reference   time.Time
}

// PlacedBar is the horizontal and vertical placement of one visible interval.
type PlacedBar struct {
	EntityID      string
	IntervalIndex int
	StartPercent  float64
	WidthPercent  float64
	Slot          int
}
