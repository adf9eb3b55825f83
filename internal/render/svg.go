// Package render draws laid out bars as an SVG Gantt chart.
//
// The renderer owns everything the layout engine leaves out: pixel
// conversion, row heights from slot counts, colours and tooltips.
package render

import (
	"fmt"
	"io"
	"strings"

	"gantt2svg/internal/config"
	"gantt2svg/internal/timeline"
)

// Chart is everything needed to draw one viewport.
type Chart struct {
	Viewport timeline.Viewport
	Entities []timeline.Entity
	Bars     []timeline.PlacedBar
}

// geometry holds the pixel frame derived from the layout config.
type geometry struct {
	chartX     int
	chartWidth int
	headerY    int // bottom of the header
}

func (g geometry) x(percent float64) float64 {
	return float64(g.chartX) + percent/100*float64(g.chartWidth)
}

// rowHeight is the height of an entity row holding slots stacking rows.
// Rows without visible bars keep the height of one slot.
func rowHeight(slots int, cfg config.Layout) int {
	return max(1, slots)*cfg.SlotHeight + 2*cfg.RowPadding
}

// Render writes the chart as a standalone SVG document to w.
func Render(w io.Writer, chart Chart, cfg config.Config) error {
	cells, err := timeline.Cells(chart.Viewport)
	if err != nil {
		return err
	}

	l := cfg.Layout
	geo := geometry{
		chartX:     l.MarginLeft + l.LabelWidth,
		chartWidth: l.Width - l.MarginLeft - l.MarginRight - l.LabelWidth,
		headerY:    l.MarginTop + l.HeaderHeight,
	}
	if geo.chartWidth <= 0 {
		return fmt.Errorf("layout width %d leaves no room for the chart", l.Width)
	}

	byEntity, err := groupBars(chart)
	if err != nil {
		return err
	}
	slots := timeline.Rows(chart.Bars)

	bodyHeight := 0
	for _, ent := range chart.Entities {
		bodyHeight += rowHeight(slots[ent.ID], l)
	}
	height := geo.headerY + bodyHeight + l.MarginBottom

	family := escapeXML(cfg.Font.Family)
	textColor := escapeXML(cfg.Colors.Text)

	var svg strings.Builder
	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.caption { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.cell-text { font-family: %s; font-size: %dpx; fill: %s; }
.row-text { font-family: %s; font-size: %dpx; fill: %s; }
.bar-text { font-family: %s; font-size: %dpx; fill: #ffffff; }
</style>
</defs>
`, l.Width, height, escapeXML(cfg.Colors.Background),
		family, cfg.Font.Size+4, textColor,
		family, cfg.Font.Size-2, textColor,
		family, cfg.Font.Size, textColor,
		family, cfg.Font.Size-2)

	fmt.Fprintf(&svg, `<text class="caption" x="%d" y="%d">%s</text>`+"\n",
		l.MarginLeft, l.MarginTop+cfg.Font.Size+4, escapeXML(chart.Viewport.Label()))

	drawCells(&svg, cells, geo, height-l.MarginBottom, cfg)

	y := geo.headerY
	for _, ent := range chart.Entities {
		h := rowHeight(slots[ent.ID], l)
		fmt.Fprintf(&svg, `<text class="row-text" x="%d" y="%d">%s</text>`+"\n",
			l.MarginLeft, y+l.RowPadding+cfg.Font.Size+2, escapeXML(fitText(ent.Label, l.LabelWidth-8, cfg.Font.Size)))
		for _, b := range byEntity[ent.ID] {
			drawBar(&svg, ent, b, geo, y, cfg)
		}
		y += h
		fmt.Fprintf(&svg, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			l.MarginLeft, y, geo.chartX+geo.chartWidth, y, escapeXML(cfg.Colors.Grid))
	}

	svg.WriteString("</svg>\n")

	_, err = io.WriteString(w, svg.String())
	return err
}

// groupBars collects the bars of each entity in chart order. Bars must point
// at an interval of a known entity, and entity ids must be unique, since a
// bar names its entity by id only.
func groupBars(chart Chart) (map[string][]timeline.PlacedBar, error) {
	intervals := make(map[string]int, len(chart.Entities))
	for _, ent := range chart.Entities {
		if _, dup := intervals[ent.ID]; dup {
			return nil, fmt.Errorf("duplicate entity id %q", ent.ID)
		}
		intervals[ent.ID] = len(ent.Intervals)
	}

	byEntity := make(map[string][]timeline.PlacedBar, len(intervals))
	for _, b := range chart.Bars {
		n, ok := intervals[b.EntityID]
		if !ok {
			return nil, fmt.Errorf("bar for unknown entity %q", b.EntityID)
		}
		if b.IntervalIndex < 0 || b.IntervalIndex >= n {
			return nil, fmt.Errorf("entity %q has no interval %d", b.EntityID, b.IntervalIndex)
		}
		byEntity[b.EntityID] = append(byEntity[b.EntityID], b)
	}
	return byEntity, nil
}

// drawCells writes the header labels and the vertical grid line at the left
// edge of every cell.
func drawCells(svg *strings.Builder, cells []timeline.Cell, geo geometry, bottom int, cfg config.Config) {
	fontSize := cfg.Font.Size - 2
	grid := escapeXML(cfg.Colors.Grid)
	for _, c := range cells {
		x := geo.x(c.StartPercent)
		fmt.Fprintf(svg, `<line x1="%.2f" y1="%d" x2="%.2f" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			x, geo.headerY, x, bottom, grid)

		cellWidth := c.WidthPercent / 100 * float64(geo.chartWidth)
		label := fitText(c.Label, int(cellWidth)-2, fontSize)
		if label == "" {
			continue
		}
		fmt.Fprintf(svg, `<text class="cell-text" x="%.2f" y="%d">%s</text>`+"\n",
			x+2, geo.headerY-6, escapeXML(label))
	}
	right := float64(geo.chartX + geo.chartWidth)
	fmt.Fprintf(svg, `<line x1="%.2f" y1="%d" x2="%.2f" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
		right, geo.headerY, right, bottom, grid)
}

func drawBar(svg *strings.Builder, ent timeline.Entity, b timeline.PlacedBar, geo geometry, rowY int, cfg config.Config) {
	l := cfg.Layout
	iv := ent.Intervals[b.IntervalIndex]

	x := geo.x(b.StartPercent)
	width := b.WidthPercent / 100 * float64(geo.chartWidth)
	y := rowY + l.RowPadding + b.Slot*l.SlotHeight + 2
	height := l.SlotHeight - 4

	title := iv.Label
	if title == "" {
		title = ent.Label
	}
	tooltip := fmt.Sprintf("%s: %s .. %s", title, iv.Start.Format("2006-01-02 15:04"), iv.End.Format("2006-01-02 15:04"))
	if iv.Status != "" {
		tooltip += " (" + string(iv.Status) + ")"
	}

	fmt.Fprintf(svg, `<rect x="%.2f" y="%d" width="%.2f" height="%d" rx="3" fill="%s"><title>%s</title></rect>`+"\n",
		x, y, width, height, escapeXML(barColor(ent, iv, cfg.Colors)), escapeXML(tooltip))

	if text := fitText(iv.Label, int(width)-6, cfg.Font.Size-2); text != "" {
		fmt.Fprintf(svg, `<text class="bar-text" x="%.2f" y="%d">%s</text>`+"\n",
			x+3, y+height-4, escapeXML(text))
	}
}

// barColor picks the status colour, then the kind colour, then the default.
func barColor(ent timeline.Entity, iv timeline.Interval, colors config.Colors) string {
	if c, ok := colors.Statuses[string(iv.Status)]; ok && iv.Status != "" {
		return c
	}
	if c, ok := colors.Kinds[string(ent.Kind)]; ok && ent.Kind != "" {
		return c
	}
	return colors.Bar
}

// estimateTextWidth estimates the width of text in pixels; an average glyph
// is about 0.6 of the font size.
func estimateTextWidth(text string, fontSize int) int {
	return int(float64(len([]rune(text))) * float64(fontSize) * 0.6)
}

// fitText shortens text with an ellipsis until it fits maxWidth pixels.
// It returns "" when not even one character fits.
func fitText(text string, maxWidth, fontSize int) string {
	if estimateTextWidth(text, fontSize) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		short := string(runes[:n]) + "…"
		if estimateTextWidth(short, fontSize) <= maxWidth {
			return short
		}
	}
	return ""
}

func escapeXML(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	).Replace(s)
}
