package tui

import (
	"unicode/utf8"

	"github.com/xonecas/aura/internal/eventbus"
)

// Input is the terminal's input-capture control. It mirrors the caret line
// and turns keystrokes into bus events; the session keeps it in sync.
type Input struct {
	bus     *eventbus.Bus
	buffer  []rune
	col     int
	focused bool
}

// Attach connects the input to the editor's bus. Keystrokes before Attach
// are ignored.
func (in *Input) Attach(bus *eventbus.Bus) { in.bus = bus }

func (in *Input) SetBuffer(text string) {
	in.buffer = []rune(text)
	in.col = min(in.col, len(in.buffer))
}

func (in *Input) SetCursorColumn(col int) { in.col = min(max(col, 0), len(in.buffer)) }
func (in *Input) Focus() { in.focused = true }

func (in *Input) Buffer() string { return string(in.buffer) }
func (in *Input) Column() int { return in.col }
func (in *Input) Focused() bool { return in.focused }

// AtLineEnd reports whether the caret is after the last character.
func (in *Input) AtLineEnd() bool { return in.col >= len(in.buffer) }

// InsertText inserts single-line text at the caret.
func (in *Input) InsertText(text string) {
	if in.bus == nil || text == "" {
		return
	}
	line := string(in.buffer[:in.col]) + text + string(in.buffer[in.col:])
	in.bus.LineTextChange.Publish(eventbus.LineTextChange{
		Text:      line,
		CursorCol: in.col + utf8.RuneCountInString(text),
	})
}

// Backspace deletes the character before the caret, or joins the line with
// the previous one at column 0.
func (in *Input) Backspace() {
	if in.bus == nil {
		return
	}
	if in.col == 0 {
		in.bus.LineBreakDelete.Publish(eventbus.LineBreakDelete{})
		return
	}
	line := string(in.buffer[:in.col-1]) + string(in.buffer[in.col:])
	in.bus.LineTextChange.Publish(eventbus.LineTextChange{Text: line, CursorCol: in.col - 1})
}

// Delete removes the character under the caret. It does nothing at the end
// of the line.
func (in *Input) Delete() {
	if in.bus == nil || in.AtLineEnd() {
		return
	}
	line := string(in.buffer[:in.col]) + string(in.buffer[in.col+1:])
	in.bus.LineTextChange.Publish(eventbus.LineTextChange{Text: line, CursorCol: in.col})
}

// Enter splits the line at the caret.
func (in *Input) Enter() {
	if in.bus == nil {
		return
	}
	in.bus.LineBreakInsert.Publish(eventbus.LineBreakInsert{CursorCol: in.col})
}

// CellMetrics measures a character grid: every character is one cell wide.
type CellMetrics struct{}

func (CellMetrics) MeasureCharacterWidth(string, float64) float64 { return 1 }
