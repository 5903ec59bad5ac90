// Package session connects the input-capture collaborator to the document
// and selection through the event bus.
package session

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/aura/internal/document"
	"github.com/xonecas/aura/internal/eventbus"
	"github.com/xonecas/aura/internal/selection"
)

// Input is the native input-capture control. The session keeps its buffer
// and caret in sync with the selection.
type Input interface {
	SetBuffer(text string)
	SetCursorColumn(col int)
	Focus()
}

// FontMetrics measures the advance width of one character.
type FontMetrics interface {
	MeasureCharacterWidth(family string, size float64) float64
}

// Options are the session settings taken from the editor configuration.
type Options struct {
	FontFamily       string
	FontSize         float64
	LineHeight       float64
	IndentString     string
	AutoIndent       bool
	TabInsertsIndent bool
}

// lineBreaks strips breaks from single-line text; breaks arrive as
// LineBreakInsert events instead.
var lineBreaks = strings.NewReplacer("\r\n", "", "\r", "", "\n", "")

type fontKey struct {
	family string
	size   float64
}

// Session owns the selection of one editor instance and applies bus events
// to the document.
type Session struct {
	doc     *document.Document
	bus     *eventbus.Bus
	sel     *selection.Selection
	input   Input
	metrics FontMetrics
	opts    Options

	widths  map[fontKey]float64
	focused bool
	syncing bool
	unsubs  []func()
}

// New creates a session and subscribes it to bus.
func New(doc *document.Document, bus *eventbus.Bus, input Input, metrics FontMetrics, opts Options) *Session {
	s := &Session{
		doc:     doc,
		bus:     bus,
		sel:     selection.New(doc, bus),
		input:   input,
		metrics: metrics,
		opts:    opts,
		widths:  make(map[fontKey]float64),
	}
	s.sel.SetMetrics(opts.LineHeight, s.CharacterWidth())

	s.unsubs = append(s.unsubs,
		bus.LineTextChange.Subscribe(s.onLineTextChange),
		bus.CursorMove.Subscribe(s.onCursorMove),
		bus.LineBreakInsert.Subscribe(s.onLineBreakInsert),
		bus.LineBreakDelete.Subscribe(s.onLineBreakDelete),
		bus.SelectionChange.Subscribe(s.onSelectionChange),
	)
	return s
}

// Close removes the session's bus subscriptions.
func (s *Session) Close() {
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil
}

func (s *Session) Document() *document.Document { return s.doc }
func (s *Session) Selection() *selection.Selection { return s.sel }
func (s *Session) Options() Options { return s.opts }

// CharacterWidth returns the width of one character in the current font.
// Measurements are cached per family and size.
func (s *Session) CharacterWidth() float64 {
	key := fontKey{s.opts.FontFamily, s.opts.FontSize}
	if w, ok := s.widths[key]; ok {
		return w
	}
	w := 1.0
	if s.metrics != nil {
		w = s.metrics.MeasureCharacterWidth(key.family, key.size)
	}
	if w <= 0 {
		log.Warn().Str("family", key.family).Float64("size", key.size).Msg("session: non-positive character width, using 1")
		w = 1
	}
	s.widths[key] = w
	return w
}

// SetFont changes the font and re-derives pointer metrics.
func (s *Session) SetFont(family string, size float64) {
	s.opts.FontFamily = family
	s.opts.FontSize = size
	s.sel.SetMetrics(s.opts.LineHeight, s.CharacterWidth())
}

// Focus gives the input control focus and resyncs it with the selection.
func (s *Session) Focus() {
	s.focused = true
	if s.input != nil {
		s.input.Focus()
	}
	s.syncInput()
}

func (s *Session) Blur() { s.focused = false }
func (s *Session) Focused() bool { return s.focused }

// Indent inserts the indent string at the caret, or with outdent removes up
// to one indent's worth of whitespace before it. It is a no-op unless tabs
// insert indentation.
func (s *Session) Indent(outdent bool) {
	if !s.opts.TabInsertsIndent || s.opts.IndentString == "" {
		return
	}
	caret := s.sel.Caret()
	runes := []rune(s.doc.Line(caret.Line))
	col := min(caret.Col, len(runes))

	if !outdent {
		text := string(runes[:col]) + s.opts.IndentString + string(runes[col:])
		s.bus.LineTextChange.Publish(eventbus.LineTextChange{
			Text:      text,
			Line:      caret.Line,
			HasLine:   true,
			CursorCol: col + utf8.RuneCountInString(s.opts.IndentString),
		})
		return
	}

	n := 0
	limit := utf8.RuneCountInString(s.opts.IndentString)
	for n < limit && col-n > 0 && (runes[col-n-1] == ' ' || runes[col-n-1] == '\t') {
		n++
	}
	if n == 0 {
		return
	}
	s.bus.LineTextChange.Publish(eventbus.LineTextChange{
		Text:      string(runes[:col-n]) + string(runes[col:]),
		Line:      caret.Line,
		HasLine:   true,
		CursorCol: col - n,
	})
}

// Location describes the caret or selection for assistive technology.
// Lines and columns are 1-based.
func (s *Session) Location() string {
	if !s.sel.Active() {
		c := s.sel.Cursor()
		return fmt.Sprintf("Cursor is at line %d, column %d.", c.Line+1, c.Col+1)
	}
	start, end := s.sel.Range()
	n := utf8.RuneCountInString(s.sel.SelectedText())
	return fmt.Sprintf(
		"Selection starts at line %d, column %d, and ends at line %d, column %d. %d characters selected.",
		start.Line+1, start.Col+1, end.Line+1, end.Col+1, n,
	)
}

// ---------------------------------------------------------------------------
// Bus handlers
// ---------------------------------------------------------------------------

func (s *Session) onLineTextChange(ev eventbus.Event[eventbus.LineTextChange]) {
	p := ev.Payload
	line := s.sel.Caret().Line
	if p.HasLine {
		line = p.Line
	}
	if line < 0 || line >= s.doc.LineCount() {
		log.Warn().Int("line", line).Int("lines", s.doc.LineCount()).Msg("session: text change outside document")
		return
	}
	text := lineBreaks.Replace(p.Text)
	s.doc.UpdateLine(line, text)
	s.sel.SetCursorPosition(line, p.CursorCol)
}

func (s *Session) onCursorMove(ev eventbus.Event[eventbus.CursorMove]) {
	p := ev.Payload
	sel := s.sel
	switch p.Direction {
	case eventbus.Up:
		pick(p.Shift, sel.SelectLineUp, sel.MoveCursorLineUp)
	case eventbus.Down:
		pick(p.Shift, sel.SelectLineDown, sel.MoveCursorLineDown)
	case eventbus.Left:
		if p.Ctrl {
			pick(p.Shift, sel.SelectWordBackward, sel.MoveCursorWordBackward)
		} else {
			pick(p.Shift, sel.SelectColBackward, sel.MoveCursorColBackward)
		}
	case eventbus.Right:
		if p.Ctrl {
			pick(p.Shift, sel.SelectWordForward, sel.MoveCursorWordForward)
		} else {
			pick(p.Shift, sel.SelectColForward, sel.MoveCursorColForward)
		}
	case eventbus.Home:
		if p.Ctrl {
			pick(p.Shift, sel.SelectDocStart, sel.MoveCursorDocStart)
		} else {
			pick(p.Shift, sel.SelectLineStart, sel.MoveCursorLineStart)
		}
	case eventbus.End:
		if p.Ctrl {
			pick(p.Shift, sel.SelectDocEnd, sel.MoveCursorDocEnd)
		} else {
			pick(p.Shift, sel.SelectLineEnd, sel.MoveCursorLineEnd)
		}
	default:
		log.Debug().Stringer("direction", p.Direction).Msg("session: ignoring cursor move")
	}
}

func pick(shift bool, selectFn, moveFn func()) {
	if shift {
		selectFn()
		return
	}
	moveFn()
}

func (s *Session) onLineBreakInsert(ev eventbus.Event[eventbus.LineBreakInsert]) {
	line := s.sel.Caret().Line
	col := min(max(ev.Payload.CursorCol, 0), s.doc.LineLength(line))

	indent, last := s.doc.IndentAt(line, col)
	newLine, newCol := s.doc.InsertLineBreak(line, col)

	if s.opts.AutoIndent && col > 0 {
		if last == '{' || last == '(' {
			indent += s.opts.IndentString
		}
		if indent != "" {
			s.doc.UpdateLine(newLine, indent+s.doc.Line(newLine))
			newCol = utf8.RuneCountInString(indent)
		}
	}
	s.sel.SetCursorPosition(newLine, newCol)
}

func (s *Session) onLineBreakDelete(eventbus.Event[eventbus.LineBreakDelete]) {
	line := s.sel.Caret().Line
	if line == 0 {
		return
	}
	newLine, newCol := s.doc.DeleteLineBreak(line)
	s.sel.SetCursorPosition(newLine, newCol)
}

// onSelectionChange resyncs the input control once the current dispatch has
// finished, so several selection changes from one event cost one sync.
func (s *Session) onSelectionChange(eventbus.Event[eventbus.SelectionChange]) {
	if s.syncing {
		return
	}
	s.syncing = true
	s.bus.Defer(func() {
		s.syncing = false
		s.syncInput()
	})
}

func (s *Session) syncInput() {
	if s.input == nil {
		return
	}
	caret := s.sel.Caret()
	s.input.SetBuffer(s.doc.Line(caret.Line))
	s.input.SetCursorColumn(caret.Col)
}
