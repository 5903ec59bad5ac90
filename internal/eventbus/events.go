// Package eventbus is the synchronous publish/subscribe channel between the
// input-capture collaborator and the editing core.
package eventbus

import "time"

// EventType names an event on the bus.
type EventType string

const (
	LineTextChangeEvent  EventType = "lineTextChange"
	CursorMoveEvent      EventType = "cursorMove"
	LineBreakInsertEvent EventType = "lineBreakInsert"
	LineBreakDeleteEvent EventType = "lineBreakDelete"
	SelectionChangeEvent EventType = "selectionChange"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// LineTextChange reports new text for a line as typed into the input control.
type LineTextChange struct {
	Text string
	// Line is the target line. It is only read when HasLine is set;
	// otherwise the line under the cursor changes.
	Line      int
	HasLine   bool
	CursorCol int
}

// Direction is the closed set of cursor motion keys.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	Home
	End
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Home:
		return "home"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// CursorMove is published for arrow, home and end keys. Ctrl selects the
// word or document variant of a motion, Shift the range-extending one.
type CursorMove struct {
	Direction Direction
	Shift     bool
	Ctrl      bool
}

// LineBreakInsert is published on enter.
type LineBreakInsert struct {
	CursorCol int
}

// LineBreakDelete is published on backspace at the start of a line.
type LineBreakDelete struct{}

// SelectionChange carries the selection state after every selection mutation.
type SelectionChange struct {
	CursorLine int
	CursorCol  int
	Active     bool
	EndLine    int
	EndCol     int
}

// Caret returns where the visible caret sits: the floating end of an active
// range, otherwise the cursor.
func (s SelectionChange) Caret() (line, col int) {
	if s.Active {
		return s.EndLine, s.EndCol
	}
	return s.CursorLine, s.CursorCol
}
