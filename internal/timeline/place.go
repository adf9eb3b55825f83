package timeline

// DefaultMinWidthPercent keeps very short bars visible and clickable.
const DefaultMinWidthPercent = 2.0

// ClipToWindow truncates r to the window. It reports false when r lies
// entirely before or after the window, in which case nothing is drawn.
func ClipToWindow(r, window DateRange) (DateRange, bool) {
	if r.End.Before(window.Start) || r.Start.After(window.End) {
		return DateRange{}, false
	}
	clipped := r
	if clipped.Start.Before(window.Start) {
		clipped.Start = window.Start
	}
	if clipped.End.After(window.End) {
		clipped.End = window.End
	}
	return clipped, true
}

// ToPercent places a clipped range inside the window as a start offset and a
// width, both in percent of the window length.
//
// The width is raised to minWidth when shorter. The start always reflects the
// clipped start, so a floored bar at the right edge may end past 100, by less
// than minWidth.
func ToPercent(clipped, window DateRange, minWidth float64) (start, width float64) {
	span := float64(window.Duration())
	start = float64(clipped.Start.Sub(window.Start)) / span * 100
	width = float64(clipped.Duration()) / span * 100
	return fitPercent(start, width, minWidth)
}

// toMonthPercent is the coarse year-view placement: every touched month
// counts in full and is 1/12 of the window.
func toMonthPercent(clipped DateRange, minWidth float64) (start, width float64) {
	const monthPercent = 100.0 / 12
	first, last := int(clipped.Start.Month()), int(clipped.End.Month())
	start = float64(first-1) * monthPercent
	width = float64(last-first+1) * monthPercent
	return fitPercent(start, width, minWidth)
}

func fitPercent(start, width, minWidth float64) (float64, float64) {
	start = clamp(start, 0, 100)
	width = clamp(width, 0, 100)
	if width < minWidth {
		width = min(minWidth, 100)
	}
	return start, width
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
