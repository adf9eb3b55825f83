package timeline

import (
	"fmt"
	"log/slog"
)

// YearScale selects how the year view measures bars.
type YearScale string

const (
	// YearScaleDay measures bars to the millisecond, like every other view.
	YearScaleDay YearScale = "day"

	// YearScaleMonth widens a bar to whole months, each 1/12 of the year.
	YearScaleMonth YearScale = "month"
)

// Options tune the rendering side of the layout. The zero value is usable.
type Options struct {
	// MinWidthPercent is the smallest width handed out. Nil means
	// DefaultMinWidthPercent; a zero floor leaves widths untouched.
	MinWidthPercent *float64
	YearScale       YearScale
	Logger          *slog.Logger
}

// Floor returns a pointer to v for Options.MinWidthPercent.
func Floor(v float64) *float64 {
	return &v
}

// Engine lays out entities on a viewport.
type Engine struct {
	minWidth  float64
	yearScale YearScale
	logger    *slog.Logger
}

// NewEngine returns an Engine with opts applied over the defaults.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		minWidth:  DefaultMinWidthPercent,
		yearScale: opts.YearScale,
		logger:    opts.Logger,
	}
	if opts.MinWidthPercent != nil {
		e.minWidth = max(*opts.MinWidthPercent, 0)
	}
	if e.yearScale == "" {
		e.yearScale = YearScaleDay
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Layout places every visible interval of every entity on the viewport.
//
// Bars come out grouped by entity in input order and, within an entity, in
// the entity's original interval order. Intervals outside the window are
// dropped before stacking, so they never claim a slot. Layout fails on an
// unknown granularity or on an interval whose start is after its end.
func (e *Engine) Layout(entities []Entity, v Viewport) ([]PlacedBar, error) {
	window, err := v.Window()
	if err != nil {
		return nil, err
	}
	if err := validateEntities(entities); err != nil {
		return nil, err
	}

	var bars []PlacedBar
	for _, ent := range entities {
		var (
			visible []int
			clipped []DateRange
		)
		for i, iv := range ent.Intervals {
			c, ok := ClipToWindow(iv.DateRange, window)
			if !ok {
				continue
			}
			visible = append(visible, i)
			clipped = append(clipped, c)
		}

		slots := StackOverlaps(clipped)
		for k, i := range visible {
			start, width := e.place(clipped[k], window, v.Granularity)
			bars = append(bars, PlacedBar{
				EntityID:      ent.ID,
				IntervalIndex: i,
				StartPercent:  start,
				WidthPercent:  width,
				Slot:          slots[k],
			})
		}
		e.logger.Debug("entity laid out",
			"entity", ent.ID,
			"intervals", len(ent.Intervals),
			"visible", len(visible),
			"slots", SlotCount(slots))
	}
	return bars, nil
}

// Layout runs an Engine with default options.
func Layout(entities []Entity, v Viewport) ([]PlacedBar, error) {
	return NewEngine(Options{}).Layout(entities, v)
}

func (e *Engine) place(clipped, window DateRange, g Granularity) (float64, float64) {
	if g == Year && e.yearScale == YearScaleMonth {
		return toMonthPercent(clipped, e.minWidth)
	}
	return ToPercent(clipped, window, e.minWidth)
}

func validateEntities(entities []Entity) error {
	for _, ent := range entities {
		for i, iv := range ent.Intervals {
			if !iv.Valid() {
				return fmt.Errorf("entity %q interval %d (%s): %w", ent.ID, i, iv.DateRange, ErrInvalidInterval)
			}
		}
	}
	return nil
}

// Rows returns, per entity id, how many slots its bars occupy.
// Entities without visible bars are absent.
func Rows(bars []PlacedBar) map[string]int {
	rows := make(map[string]int)
	for _, b := range bars {
		rows[b.EntityID] = max(rows[b.EntityID], b.Slot+1)
	}
	return rows
}
