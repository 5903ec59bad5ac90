package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/aura/internal/eventbus"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// -- Window resize -------------------------------------------------------
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	// -- Paste ---------------------------------------------------------------
	case tea.PasteMsg:
		m.insertPaste(msg.Content)
		return m, nil

	// -- Mouse ---------------------------------------------------------------
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	// -- Keyboard ------------------------------------------------------------
	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	// -- Background formatting -----------------------------------------------
	case workerMsg:
		m.editor.Deliver(msg.resp)
		return m, waitForWorker(m.editor.Worker())
	}

	return m, nil
}

// handleResize applies a window size change to the editor's client area.
func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	m.editor.Resize(float64(max(0, m.width-m.gutterWidth())), float64(m.textRows()))
}

// handleKeyPress turns a key into bus events or editor calls.
func (m Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if mv, ok := m.keys.MotionFor(msg); ok {
		m.editor.Bus().CursorMove.Publish(mv)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Enter):
		m.input.Enter()
	case key.Matches(msg, m.keys.Backspace):
		m.input.Backspace()
	case key.Matches(msg, m.keys.Delete):
		m.deleteForward()
	case key.Matches(msg, m.keys.Indent):
		m.editor.Session().Indent(false)
	case key.Matches(msg, m.keys.Outdent):
		m.editor.Session().Indent(true)
	case key.Matches(msg, m.keys.PageUp):
		m.page(eventbus.Up, msg.Mod.Contains(tea.ModShift))
	case key.Matches(msg, m.keys.PageDown):
		m.page(eventbus.Down, msg.Mod.Contains(tea.ModShift))
	case key.Matches(msg, m.keys.Collapse):
		m.editor.Selection().Collapse()
	default:
		if msg.Text != "" {
			m.input.InsertText(msg.Text)
		} else {
			log.Debug().Str("key", msg.Keystroke()).Msg("tui: unbound key")
		}
	}
	return m, nil
}

// deleteForward deletes under the caret, or joins the next line onto this
// one at the end of a line.
func (m *Model) deleteForward() {
	if !m.input.AtLineEnd() {
		m.input.Delete()
		return
	}
	caret := m.editor.Selection().Caret()
	if caret.Line+1 >= m.editor.Document().LineCount() {
		return
	}
	bus := m.editor.Bus()
	bus.CursorMove.Publish(eventbus.CursorMove{Direction: eventbus.Right})
	bus.LineBreakDelete.Publish(eventbus.LineBreakDelete{})
}

// page moves the caret one screen up or down.
func (m *Model) page(dir eventbus.Direction, shift bool) {
	bus := m.editor.Bus()
	for range max(1, m.textRows()) {
		bus.CursorMove.Publish(eventbus.CursorMove{Direction: dir, Shift: shift})
	}
}

// insertPaste types pasted text, splitting lines at line breaks.
func (m *Model) insertPaste(text string) {
	if text == "" {
		return
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n")
	for i, part := range parts {
		m.input.InsertText(part)
		if i < len(parts)-1 {
			m.input.Enter()
		}
	}
}
