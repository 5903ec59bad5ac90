package tui

import (
	"fmt"

	"charm.land/bubbles/v2/key"

	"github.com/xonecas/aura/internal/eventbus"
)

// Motion binds a keystroke to a cursor move.
type Motion struct {
	Binding key.Binding
	Move    eventbus.CursorMove
}

// KeyMap holds the editor key bindings.
type KeyMap struct {
	Quit      key.Binding
	Enter     key.Binding
	Backspace key.Binding
	Delete    key.Binding
	Indent    key.Binding
	Outdent   key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Collapse  key.Binding

	Motions []Motion
}

// DefaultKeyMap returns the standard bindings. Arrow, home and end keys take
// shift to extend the selection and ctrl for the word or document variant.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new line")),
		Backspace: key.NewBinding(key.WithKeys("backspace", "ctrl+h"), key.WithHelp("backspace", "delete back")),
		Delete:    key.NewBinding(key.WithKeys("delete", "ctrl+d"), key.WithHelp("delete", "delete forward")),
		Indent:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "indent")),
		Outdent:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "outdent")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "shift+pgup"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "shift+pgdown"), key.WithHelp("pgdown", "page down")),
		Collapse:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
	}

	dirs := []struct {
		dir  eventbus.Direction
		name string
	}{
		{eventbus.Up, "up"},
		{eventbus.Down, "down"},
		{eventbus.Left, "left"},
		{eventbus.Right, "right"},
		{eventbus.Home, "home"},
		{eventbus.End, "end"},
	}
	for _, d := range dirs {
		for _, ctrl := range []bool{false, true} {
			for _, shift := range []bool{false, true} {
				stroke := d.name
				if shift {
					stroke = "shift+" + stroke
				}
				if ctrl {
					stroke = "ctrl+" + stroke
				}
				keys := []string{stroke}
				switch stroke {
				case "home":
					keys = append(keys, "ctrl+a")
				case "end":
					keys = append(keys, "ctrl+e")
				}
				km.Motions = append(km.Motions, Motion{
					Binding: key.NewBinding(key.WithKeys(keys...)),
					Move:    eventbus.CursorMove{Direction: d.dir, Shift: shift, Ctrl: ctrl},
				})
			}
		}
	}
	return km
}

// MotionFor returns the cursor move bound to the pressed key.
func (km KeyMap) MotionFor(k fmt.Stringer) (eventbus.CursorMove, bool) {
	for _, m := range km.Motions {
		if key.Matches(k, m.Binding) {
			return m.Move, true
		}
	}
	return eventbus.CursorMove{}, false
}
