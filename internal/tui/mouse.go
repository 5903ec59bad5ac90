package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// wheelLines is how far one wheel notch scrolls.
const wheelLines = 3

// ---------------------------------------------------------------------------
// Mouse filter: throttle high-frequency events at program level.
// ---------------------------------------------------------------------------

// mouseThrottle is the minimum gap between wheel or motion events.
const mouseThrottle = 15 * time.Millisecond

// NewMouseEventFilter returns a filter that rate-limits wheel and motion
// events. Pass it to tea.WithFilter, one per program. Never drops clicks or
// releases.
func NewMouseEventFilter() func(tea.Model, tea.Msg) tea.Msg {
	var last time.Time
	return func(_ tea.Model, msg tea.Msg) tea.Msg {
		switch msg.(type) {
		case tea.MouseWheelMsg, tea.MouseMotionMsg:
			now := time.Now()
			if now.Sub(last) < mouseThrottle {
				return nil
			}
			last = now
		}
		return msg
	}
}

// ---------------------------------------------------------------------------
// Mouse handling
// ---------------------------------------------------------------------------

// handleMouse translates screen cells into the editor's client area, which
// starts after the gutter.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	mouse := msg.Mouse()
	x := float64(max(0, mouse.X-m.gutterWidth()))
	y := float64(mouse.Y)

	switch msg.(type) {
	case tea.MouseClickMsg:
		if mouse.Button == tea.MouseLeft && mouse.Y < m.textRows() {
			m.editor.MouseDown(x, y)
		}
	case tea.MouseMotionMsg:
		m.editor.MouseMove(x, y)
	case tea.MouseReleaseMsg:
		m.editor.MouseUp()
	case tea.MouseWheelMsg:
		switch mouse.Button {
		case tea.MouseWheelUp:
			m.editor.ScrollBy(-wheelLines)
		case tea.MouseWheelDown:
			m.editor.ScrollBy(wheelLines)
		}
	}
}
