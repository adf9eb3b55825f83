// Package config loads the chart configuration: built-in defaults, then an
// optional YAML file, then GANTT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"gantt2svg/internal/timeline"
	"gantt2svg/internal/validation"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GANTT_"

// Config controls what is laid out and how it is drawn.
//
// Useful knobs:
//   - view.granularity picks day, week, month or year
//   - layout.min_width_percent keeps tiny bars visible; 0 turns the floor off
//   - layout.slot_height is the height of one stacking row inside an entity row
//   - view.year_scale=month reproduces whole-month bars in the year view
type Config struct {
	View    View    `yaml:"view" envPrefix:"VIEW_"`
	Layout  Layout  `yaml:"layout" envPrefix:"LAYOUT_"`
	Font    Font    `yaml:"font" envPrefix:"FONT_"`
	Colors  Colors  `yaml:"colors" envPrefix:"COLORS_"`
	Columns Columns `yaml:"columns" envPrefix:"COLUMNS_"`
}

// View picks the window to draw.
type View struct {
	Granularity string `yaml:"granularity" env:"GRANULARITY" validate:"required,oneof=day week month year"`
	Reference   string `yaml:"reference" env:"REFERENCE"` // date inside the window, empty means today
	YearScale   string `yaml:"year_scale" env:"YEAR_SCALE" validate:"omitempty,oneof=day month"`
}

// Layout holds the chart geometry in pixels, plus the bar width floor.
type Layout struct {
	Width           int     `yaml:"width" env:"WIDTH" validate:"gt=0"`
	MarginTop       int     `yaml:"margin_top" env:"MARGIN_TOP" validate:"gte=0"`
	MarginBottom    int     `yaml:"margin_bottom" env:"MARGIN_BOTTOM" validate:"gte=0"`
	MarginLeft      int     `yaml:"margin_left" env:"MARGIN_LEFT" validate:"gte=0"`
	MarginRight     int     `yaml:"margin_right" env:"MARGIN_RIGHT" validate:"gte=0"`
	LabelWidth      int     `yaml:"label_width" env:"LABEL_WIDTH" validate:"gte=0"`         // column left of the chart holding entity names
	HeaderHeight    int     `yaml:"header_height" env:"HEADER_HEIGHT" validate:"gte=0"`     // caption plus cell labels
	SlotHeight      int     `yaml:"slot_height" env:"SLOT_HEIGHT" validate:"gt=0"`          // one stacking row
	RowPadding      int     `yaml:"row_padding" env:"ROW_PADDING" validate:"gte=0"`         // vertical space around the slots of a row
	MinWidthPercent float64 `yaml:"min_width_percent" env:"MIN_WIDTH_PERCENT" validate:"gte=0,lte=100"`
}

// Font is the text style used for labels and the header.
type Font struct {
	Family string `yaml:"family" env:"FAMILY" validate:"required"`
	Size   int    `yaml:"size" env:"SIZE" validate:"gt=0"`
}

// Colors are hex colour codes. Bars take the status colour, then the kind
// colour, then Bar.
type Colors struct {
	Background string            `yaml:"background" env:"BACKGROUND" validate:"required"`
	Grid       string            `yaml:"grid" env:"GRID" validate:"required"`
	Text       string            `yaml:"text" env:"TEXT" validate:"required"`
	Bar        string            `yaml:"bar" env:"BAR" validate:"required"`
	Kinds      map[string]string `yaml:"kinds" env:"KINDS"`
	Statuses   map[string]string `yaml:"statuses" env:"STATUSES"`
}

// Columns names the CSV header cells, matched case-insensitively.
type Columns struct {
	ID     string `yaml:"id" env:"ID" validate:"required"`
	Label  string `yaml:"label" env:"LABEL"`
	Kind   string `yaml:"kind" env:"KIND"`
	Start  string `yaml:"start" env:"START" validate:"required"`
	End    string `yaml:"end" env:"END" validate:"required"`
	Status string `yaml:"status" env:"STATUS"`
	Title  string `yaml:"title" env:"TITLE"`
}

// Default returns the built-in configuration: a week view on a 1200px wide
// canvas with 22px stacking rows and the 2% minimum bar width.
func Default() Config {
	return Config{
		View: View{
			Granularity: string(timeline.Week),
			YearScale:   string(timeline.YearScaleDay),
		},
		Layout: Layout{
			Width:           1200,
			MarginTop:       20,
			MarginBottom:    20,
			MarginLeft:      20,
			MarginRight:     20,
			LabelWidth:      180,
			HeaderHeight:    60,
			SlotHeight:      22,
			RowPadding:      6,
			MinWidthPercent: timeline.DefaultMinWidthPercent,
		},
		Font: Font{
			Family: "Arial, sans-serif",
			Size:   12,
		},
		Colors: Colors{
			Background: "#ffffff",
			Grid:       "#e0e0e0",
			Text:       "#333333",
			Bar:        "#4285f4",
			Kinds: map[string]string{
				string(timeline.KindPerson):  "#4285f4",
				string(timeline.KindProject): "#34a853",
				string(timeline.KindTrailer): "#fbbc05",
			},
			Statuses: map[string]string{
				string(timeline.StatusPlanned):    "#9e9e9e",
				string(timeline.StatusInProgress): "#1e88e5",
				string(timeline.StatusCompleted):  "#43a047",
				string(timeline.StatusOnHold):     "#fb8c00",
				string(timeline.StatusCancelled):  "#e53935",
			},
		},
		Columns: Columns{
			ID:     "id",
			Label:  "label",
			Kind:   "kind",
			Start:  "start",
			End:    "end",
			Status: "status",
			Title:  "title",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			// The first error keeps the message readable.
			err = aggErr.Errors[0]
		}
		return Config{}, fmt.Errorf("error reading environment: %w", err)
	}

	v, err := validation.New()
	if err != nil {
		return Config{}, err
	}
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Viewport resolves the view section. An empty reference means the day of now.
func (c Config) Viewport(now time.Time) (timeline.Viewport, error) {
	g, err := timeline.ParseGranularity(c.View.Granularity)
	if err != nil {
		return timeline.Viewport{}, err
	}
	if c.View.Reference == "" {
		return timeline.Today(g, now), nil
	}
	ref, err := time.ParseInLocation(time.DateOnly, c.View.Reference, now.Location())
	if err != nil {
		return timeline.Viewport{}, fmt.Errorf("invalid view reference %q: %w", c.View.Reference, err)
	}
	return timeline.Viewport{Granularity: g, Reference: ref}, nil
}

// EngineOptions maps the layout section onto timeline options.
func (c Config) EngineOptions() timeline.Options {
	return timeline.Options{
		MinWidthPercent: timeline.Floor(c.Layout.MinWidthPercent),
		YearScale:       timeline.YearScale(c.View.YearScale),
	}
}
