package renderer

import (
	"github.com/xonecas/aura/internal/eventbus"
	"github.com/xonecas/aura/internal/viewport"
)

// Caret is the drawn cursor position in pixels.
type Caret struct {
	Line int
	Col  int
	Top  float64
	Left float64
}

// Span is the selected part of one visible line.
type Span struct {
	Line     int
	StartCol int
	EndCol   int
	Top      float64
	Left     float64
	Text     string
	// Newline is set when the selection continues past the end of the line.
	Newline bool
}

// Overlay is the cursor, active-line band and selection drawn over the text.
type Overlay struct {
	CaretVisible bool
	Caret        Caret

	// ActiveLine is the band behind the cursor line, shown only while the
	// selection is collapsed.
	ActiveLineVisible bool
	ActiveLineTop     float64
	LineHeight        float64

	Spans []Span
}

// Overlay computes the selection layer for the visible range. The caret sits
// on the floating end of an active range and is hidden when it falls outside
// vr or the editor is unfocused.
func (r *Renderer) Overlay(sel eventbus.SelectionChange, vr viewport.Range, focused bool, charWidth float64) Overlay {
	o := Overlay{LineHeight: r.lineHeight}

	line, col := sel.Caret()
	o.Caret = Caret{
		Line: line,
		Col:  col,
		Top:  float64(line) * r.lineHeight,
		Left: float64(col) * charWidth,
	}
	inView := vr.Contains(line)
	o.CaretVisible = focused && inView

	if !sel.Active {
		if inView {
			o.ActiveLineVisible = true
			o.ActiveLineTop = o.Caret.Top
		}
		return o
	}

	start, startCol := sel.CursorLine, sel.CursorCol
	end, endCol := sel.EndLine, sel.EndCol
	if end < start || (end == start && endCol < startCol) {
		start, startCol, end, endCol = end, endCol, start, startCol
	}
	if start > vr.Last || end < vr.First {
		return o
	}

	for l := max(start, vr.First); l <= min(end, vr.Last); l++ {
		runes := []rune(r.text(l))
		sp := Span{Line: l, Top: float64(l) * r.lineHeight, EndCol: len(runes)}
		if l == start {
			sp.StartCol = min(startCol, len(runes))
		}
		if l == end {
			sp.EndCol = min(endCol, len(runes))
		} else {
			sp.Newline = true
		}
		if sp.EndCol < sp.StartCol {
			sp.EndCol = sp.StartCol
		}
		sp.Left = float64(sp.StartCol) * charWidth
		sp.Text = string(runes[sp.StartCol:sp.EndCol])
		o.Spans = append(o.Spans, sp)
	}
	return o
}
