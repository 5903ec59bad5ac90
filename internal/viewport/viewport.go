// Package viewport maps scroll metrics to the range of document lines that
// must be materialized.
package viewport

import "math"

// Metrics is a snapshot of the scroll container and document size.
type Metrics struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
	LineHeight   float64
	LineCount    int
	// Overscan is the number of extra lines kept beyond each visible edge.
	Overscan int
}

// Range is an inclusive range of line indexes. Last may equal the line count
// of the document, in which case the trailing index has no backing line.
type Range struct {
	First int
	Last  int
}

// Len returns the number of indexes covered by r.
func (r Range) Len() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Contains reports whether line falls inside r.
func (r Range) Contains(line int) bool {
	return line >= r.First && line <= r.Last
}

// Calculate returns the visible range for m. It has no side effects.
func Calculate(m Metrics) Range {
	if m.LineHeight <= 0 {
		return Range{}
	}
	if m.ScrollHeight <= m.ClientHeight {
		last := int(math.Ceil(m.ClientHeight/m.LineHeight)) + m.Overscan
		return Range{First: 0, Last: min(m.LineCount, last)}
	}
	first := int(math.Floor(m.ScrollTop/m.LineHeight)) - m.Overscan
	last := int(math.Ceil((m.ScrollTop+m.ClientHeight-m.LineHeight)/m.LineHeight)) + m.Overscan
	return Range{
		First: max(0, first),
		Last:  min(m.LineCount, last),
	}
}

// ScrollIntoView returns the scroll offset that keeps cursorLine on screen.
// A cursor above the visible range aligns to the top edge; one at or past the
// last fully visible line aligns to the bottom edge. changed is false when no
// scroll is needed.
func ScrollIntoView(cursorLine int, visible Range, overscan int, lineHeight, clientHeight, scrollTop float64) (float64, bool) {
	if lineHeight <= 0 {
		return scrollTop, false
	}
	top := float64(cursorLine) * lineHeight
	switch {
	case cursorLine <= visible.First+overscan && top < scrollTop:
		return top, true
	case cursorLine >= visible.Last-overscan && top+lineHeight > scrollTop+clientHeight:
		return max(0, top+lineHeight-clientHeight), true
	}
	return scrollTop, false
}

// TextDimensions returns the scrollable extent of a document.
func TextDimensions(lineCount, longest int, lineHeight, charWidth float64) (width, height float64) {
	return float64(longest) * charWidth, float64(lineCount) * lineHeight
}
