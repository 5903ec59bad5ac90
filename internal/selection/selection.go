// Package selection holds the cursor and range state of an editor session.
//
// The cursor is the anchor of a range. When a range is active the floating
// end moves under select-* operations while the anchor stays put; any plain
// motion collapses the range. Every mutation publishes a SelectionChange on
// the bus.
package selection

import (
	"math"
	"strings"

	"github.com/xonecas/aura/internal/document"
	"github.com/xonecas/aura/internal/eventbus"
	"github.com/xonecas/aura/internal/tokenizer"
)

// Pos is a line and rune column in the document.
type Pos struct {
	Line int
	Col  int
}

// Before reports whether p sorts before q in document order.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}

type motion func(from Pos) Pos

// Selection is the cursor/anchor/range state machine. It reads the document
// but never changes its text.
type Selection struct {
	doc *document.Document
	bus *eventbus.Bus

	cursor   Pos
	end      Pos
	active   bool
	savedCol int

	lineHeight float64
	charWidth  float64
	dragging   bool
}

// New creates a collapsed selection at the start of doc.
func New(doc *document.Document, bus *eventbus.Bus) *Selection {
	return &Selection{
		doc:        doc,
		bus:        bus,
		lineHeight: 1,
		charWidth:  1,
	}
}

// SetMetrics sets the pixel sizes used to convert pointer offsets.
func (s *Selection) SetMetrics(lineHeight, charWidth float64) {
	if lineHeight > 0 {
		s.lineHeight = lineHeight
	}
	if charWidth > 0 {
		s.charWidth = charWidth
	}
}

func (s *Selection) Cursor() Pos { return s.cursor }
func (s *Selection) End() Pos { return s.end }
func (s *Selection) Active() bool { return s.active }
func (s *Selection) SavedColumn() int { return s.savedCol }
func (s *Selection) Dragging() bool { return s.dragging }
func (s *Selection) LineHeight() float64 { return s.lineHeight }
func (s *Selection) CharWidth() float64 { return s.charWidth }

// Caret is where motions start from and where the caret is drawn: the
// floating end of an active range, otherwise the cursor.
func (s *Selection) Caret() Pos {
	if s.active {
		return s.end
	}
	return s.cursor
}

// Range returns the selected span in document order. Both ends equal the
// cursor when the selection is collapsed.
func (s *Selection) Range() (start, end Pos) {
	if !s.active {
		return s.cursor, s.cursor
	}
	if s.end.Before(s.cursor) {
		return s.end, s.cursor
	}
	return s.cursor, s.end
}

// SelectedText returns the text covered by an active range.
func (s *Selection) SelectedText() string {
	start, end := s.Range()
	if start == end {
		return ""
	}
	if start.Line == end.Line {
		return runeSlice(s.doc.Line(start.Line), start.Col, end.Col)
	}
	parts := make([]string, 0, end.Line-start.Line+1)
	first := s.doc.Line(start.Line)
	parts = append(parts, runeSlice(first, start.Col, len([]rune(first))))
	for l := start.Line + 1; l < end.Line; l++ {
		parts = append(parts, s.doc.Line(l))
	}
	parts = append(parts, runeSlice(s.doc.Line(end.Line), 0, end.Col))
	return strings.Join(parts, s.doc.Separator)
}

// Snapshot returns the state as published on the bus.
func (s *Selection) Snapshot() eventbus.SelectionChange {
	return eventbus.SelectionChange{
		CursorLine: s.cursor.Line,
		CursorCol:  s.cursor.Col,
		Active:     s.active,
		EndLine:    s.end.Line,
		EndCol:     s.end.Col,
	}
}

func (s *Selection) publish() {
	if s.bus == nil {
		return
	}
	s.bus.SelectionChange.Publish(s.Snapshot())
}

// ---------------------------------------------------------------------------
// Collapsed motions
// ---------------------------------------------------------------------------

func (s *Selection) MoveCursorLineUp() { s.move(s.lineUp, true) }
func (s *Selection) MoveCursorLineDown() { s.move(s.lineDown, true) }
func (s *Selection) MoveCursorColForward() { s.move(s.colForward, false) }
func (s *Selection) MoveCursorColBackward() { s.move(s.colBackward, false) }
func (s *Selection) MoveCursorWordForward() { s.move(s.wordForward, false) }
func (s *Selection) MoveCursorWordBackward() { s.move(s.wordBackward, false) }
func (s *Selection) MoveCursorLineStart() { s.move(s.lineStart, false) }
func (s *Selection) MoveCursorLineEnd() { s.move(s.lineEnd, false) }
func (s *Selection) MoveCursorDocStart() { s.move(s.docStart, false) }
func (s *Selection) MoveCursorDocEnd() { s.move(s.docEnd, false) }

// ---------------------------------------------------------------------------
// Range motions
// ---------------------------------------------------------------------------

func (s *Selection) SelectColForward() { s.extend(s.colForward, false) }
func (s *Selection) SelectColBackward() { s.extend(s.colBackward, false) }
func (s *Selection) SelectWordForward() { s.extend(s.wordForward, false) }
func (s *Selection) SelectWordBackward() { s.extend(s.wordBackward, false) }
func (s *Selection) SelectLineUp() { s.extend(s.lineUp, true) }
func (s *Selection) SelectLineDown() { s.extend(s.lineDown, true) }
func (s *Selection) SelectLineStart() { s.extend(s.lineStart, false) }
func (s *Selection) SelectLineEnd() { s.extend(s.lineEnd, false) }
func (s *Selection) SelectDocStart() { s.extend(s.docStart, false) }
func (s *Selection) SelectDocEnd() { s.extend(s.docEnd, false) }

// SetCursorPosition collapses the selection at (line, col), clamped to the
// document.
func (s *Selection) SetCursorPosition(line, col int) {
	p := s.clamp(Pos{Line: line, Col: col})
	s.collapseAt(p)
	s.savedCol = p.Col
	s.publish()
}

// Collapse drops an active range, leaving the cursor where it is.
func (s *Selection) Collapse() {
	s.collapseAt(s.cursor)
	s.publish()
}

// OnMouseDown collapses the selection at the pointer offset and starts a drag.
func (s *Selection) OnMouseDown(x, y float64) {
	p := s.pointToPos(x, y)
	s.collapseAt(p)
	s.savedCol = p.Col
	s.dragging = true
	s.publish()
}

// OnMouseMove moves the floating end to the pointer while a drag is in
// progress. Returning to the anchor collapses the range again.
func (s *Selection) OnMouseMove(x, y float64) {
	if !s.dragging {
		return
	}
	p := s.pointToPos(x, y)
	active := p != s.cursor
	if p == s.end && active == s.active {
		return
	}
	s.end = p
	s.active = active
	s.savedCol = p.Col
	s.publish()
}

// OnMouseUp ends a drag.
func (s *Selection) OnMouseUp() { s.dragging = false }

func (s *Selection) move(m motion, vertical bool) {
	to := s.clamp(m(s.Caret()))
	s.collapseAt(to)
	if !vertical {
		s.savedCol = to.Col
	}
	s.publish()
}

func (s *Selection) extend(m motion, vertical bool) {
	to := s.clamp(m(s.Caret()))
	s.end = to
	s.active = true
	if !vertical {
		s.savedCol = to.Col
	}
	s.publish()
}

func (s *Selection) collapseAt(p Pos) {
	s.cursor = p
	s.end = p
	s.active = false
}

// pointToPos converts a pixel offset into the text to a position: the line by
// flooring against the line height, the column by rounding against the
// character width.
func (s *Selection) pointToPos(x, y float64) Pos {
	line := int(math.Floor(y / s.lineHeight))
	col := int(math.Round(x / s.charWidth))
	return s.clamp(Pos{Line: line, Col: col})
}

func (s *Selection) clamp(p Pos) Pos {
	p.Line = min(max(p.Line, 0), s.doc.LineCount()-1)
	p.Col = min(max(p.Col, 0), s.doc.LineLength(p.Line))
	return p
}

// ---------------------------------------------------------------------------
// Motion targets
// ---------------------------------------------------------------------------

func (s *Selection) lineUp(p Pos) Pos {
	if p.Line == 0 {
		return p
	}
	return Pos{Line: p.Line - 1, Col: s.savedCol}
}

func (s *Selection) lineDown(p Pos) Pos {
	if p.Line >= s.doc.LineCount()-1 {
		return p
	}
	return Pos{Line: p.Line + 1, Col: s.savedCol}
}

func (s *Selection) colForward(p Pos) Pos {
	if p.Col < s.doc.LineLength(p.Line) {
		return Pos{Line: p.Line, Col: p.Col + 1}
	}
	if p.Line < s.doc.LineCount()-1 {
		return Pos{Line: p.Line + 1}
	}
	return p
}

func (s *Selection) colBackward(p Pos) Pos {
	if p.Col > 0 {
		return Pos{Line: p.Line, Col: p.Col - 1}
	}
	if p.Line > 0 {
		return Pos{Line: p.Line - 1, Col: s.doc.LineLength(p.Line - 1)}
	}
	return p
}

// wordForward skips whitespace, then one homogeneous run of separators or of
// word characters. At end of line it behaves like colForward.
func (s *Selection) wordForward(p Pos) Pos {
	runes := []rune(s.doc.Line(p.Line))
	if p.Col >= len(runes) {
		return s.colForward(p)
	}
	i := p.Col
	for i < len(runes) && tokenizer.Classify(runes[i]) == tokenizer.Whitespace {
		i++
	}
	if i < len(runes) {
		class := tokenizer.Classify(runes[i])
		for i < len(runes) && tokenizer.Classify(runes[i]) == class {
			i++
		}
	}
	return Pos{Line: p.Line, Col: i}
}

// wordBackward mirrors wordForward. At column 0 it behaves like colBackward.
func (s *Selection) wordBackward(p Pos) Pos {
	if p.Col == 0 {
		return s.colBackward(p)
	}
	runes := []rune(s.doc.Line(p.Line))
	i := min(p.Col, len(runes))
	for i > 0 && tokenizer.Classify(runes[i-1]) == tokenizer.Whitespace {
		i--
	}
	if i > 0 {
		class := tokenizer.Classify(runes[i-1])
		for i > 0 && tokenizer.Classify(runes[i-1]) == class {
			i--
		}
	}
	return Pos{Line: p.Line, Col: i}
}

func (s *Selection) lineStart(p Pos) Pos { return Pos{Line: p.Line} }

func (s *Selection) lineEnd(p Pos) Pos {
	return Pos{Line: p.Line, Col: s.doc.LineLength(p.Line)}
}

func (s *Selection) docStart(Pos) Pos { return Pos{} }

func (s *Selection) docEnd(Pos) Pos {
	last := s.doc.LineCount() - 1
	return Pos{Line: last, Col: s.doc.LineLength(last)}
}

func runeSlice(s string, from, to int) string {
	r := []rune(s)
	from = min(max(from, 0), len(r))
	to = min(max(to, from), len(r))
	return string(r[from:to])
}
