package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"gantt2svg/internal/config"
	"gantt2svg/internal/timeline"
)

func day(d int) time.Time {
	return time.Date(2025, 9, 29+d, 0, 0, 0, 0, time.UTC)
}

func testChart(t *testing.T) Chart {
	t.Helper()
	entities := []timeline.Entity{
		{
			ID:    "crew-1",
			Label: "Alice <lead> & co",
			Kind:  timeline.KindPerson,
			Intervals: []timeline.Interval{
				{DateRange: timeline.DateRange{Start: day(-1), End: timeline.EndOfDay(day(3))}, Label: "Harbour Tower", Status: timeline.StatusInProgress},
				{DateRange: timeline.DateRange{Start: day(1), End: timeline.EndOfDay(day(2))}, Label: "Depot"},
			},
		},
		{
			ID:        "trailer-2",
			Label:     "Trailer 2",
			Kind:      timeline.KindTrailer,
			Intervals: []timeline.Interval{{DateRange: timeline.DateRange{Start: day(20), End: day(21)}}},
		},
	}
	v := timeline.Viewport{Granularity: timeline.Week, Reference: day(0)}
	bars, err := timeline.Layout(entities, v)
	if err != nil {
		t.Fatal(err)
	}
	return Chart{Viewport: v, Entities: entities, Bars: bars}
}

func TestRender(t *testing.T) {
	chart := testChart(t)
	cfg := config.Default()

	var buf bytes.Buffer
	if err := Render(&buf, chart, cfg); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("output is not a complete SVG document")
	}
	if got := strings.Count(out, "<rect x="); got != len(chart.Bars) {
		t.Errorf("drew %d bars, want %d", got, len(chart.Bars))
	}
	if !strings.Contains(out, "Alice &lt;lead&gt; &amp; co") {
		t.Errorf("entity label not escaped")
	}
	if strings.Contains(out, "<lead>") {
		t.Errorf("raw label leaked into the document")
	}
	if !strings.Contains(out, "Week of 29 Sep 2025") {
		t.Errorf("caption missing")
	}
	if !strings.Contains(out, cfg.Colors.Statuses["in_progress"]) {
		t.Errorf("status colour not used")
	}
	if !strings.Contains(out, "Mon 29") || !strings.Contains(out, "Sun 5") {
		t.Errorf("day cells missing")
	}

	// Two stacked slots for crew-1 plus one empty row for trailer-2.
	l := cfg.Layout
	wantHeight := l.MarginTop + l.HeaderHeight + rowHeight(2, l) + rowHeight(0, l) + l.MarginBottom
	if !strings.Contains(out, fmt.Sprintf(`height="%d"`, wantHeight)) {
		t.Errorf("document height is not %d", wantHeight)
	}
}

func TestRenderRejectsNarrowLayout(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.Width = cfg.Layout.LabelWidth

	var buf bytes.Buffer
	if err := Render(&buf, testChart(t), cfg); err == nil {
		t.Fatal("expected an error when the chart has no width")
	}
}

func TestRenderRejectsMismatchedBars(t *testing.T) {
	iv := func(d int) timeline.Interval {
		return timeline.Interval{DateRange: timeline.DateRange{Start: day(d), End: timeline.EndOfDay(day(d))}}
	}
	v := timeline.Viewport{Granularity: timeline.Week, Reference: day(0)}

	dup := []timeline.Entity{
		{ID: "x", Intervals: []timeline.Interval{iv(0), iv(1)}},
		{ID: "x", Intervals: []timeline.Interval{iv(2)}},
	}
	bars, err := timeline.Layout(dup, v)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		chart   Chart
		wantErr string
	}{
		{"duplicate entity id", Chart{Viewport: v, Entities: dup, Bars: bars}, `duplicate entity id "x"`},
		{"unknown entity", Chart{
			Viewport: v,
			Entities: dup[1:],
			Bars:     []timeline.PlacedBar{{EntityID: "y", WidthPercent: 10}},
		}, `unknown entity "y"`},
		{"interval out of range", Chart{
			Viewport: v,
			Entities: dup[1:],
			Bars:     []timeline.PlacedBar{{EntityID: "x", IntervalIndex: 1, WidthPercent: 10}},
		}, `no interval 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, tt.chart, config.Default())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Render() error = %v, want containing %q", err, tt.wantErr)
			}
			if buf.Len() != 0 {
				t.Errorf("partial document written")
			}
		})
	}
}

func TestRenderEscapesStyle(t *testing.T) {
	cfg := config.Default()
	cfg.Font.Family = `Arial "x" <y>`
	cfg.Colors.Text = `#000</style><script>`
	cfg.Colors.Grid = `#ccc" onload="alert(1)`

	var buf bytes.Buffer
	if err := Render(&buf, testChart(t), cfg); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, raw := range []string{"<y>", "<script>", `" onload="`} {
		if strings.Contains(out, raw) {
			t.Errorf("raw %q leaked into the document", raw)
		}
	}
	for _, escaped := range []string{
		"font-family: Arial &quot;x&quot; &lt;y&gt;;",
		"fill: #000&lt;/style&gt;&lt;script&gt;;",
		`stroke="#ccc&quot; onload=&quot;alert(1)"`,
	} {
		if !strings.Contains(out, escaped) {
			t.Errorf("output missing %q", escaped)
		}
	}
	if strings.Count(out, "</style>") != 1 {
		t.Errorf("style block closed more than once")
	}
}

func TestBarColor(t *testing.T) {
	colors := config.Default().Colors
	ent := timeline.Entity{Kind: timeline.KindProject}

	if got := barColor(ent, timeline.Interval{Status: timeline.StatusCancelled}, colors); got != colors.Statuses["cancelled"] {
		t.Errorf("status colour = %q", got)
	}
	if got := barColor(ent, timeline.Interval{}, colors); got != colors.Kinds["project"] {
		t.Errorf("kind colour = %q", got)
	}
	if got := barColor(timeline.Entity{}, timeline.Interval{}, colors); got != colors.Bar {
		t.Errorf("fallback colour = %q", got)
	}
}

func TestFitText(t *testing.T) {
	tests := []struct {
		text     string
		maxWidth int
		want     string
	}{
		{"Depot", 100, "Depot"},
		{"Harbour Tower", 50, "Harbo…"},
		{"Harbour Tower", 3, ""},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := fitText(tt.text, tt.maxWidth, 12); got != tt.want {
			t.Errorf("fitText(%q, %d) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	if got := escapeXML(`a<b>"c"&'d'`); got != "a&lt;b&gt;&quot;c&quot;&amp;&apos;d&apos;" {
		t.Errorf("escapeXML() = %q", got)
	}
}
