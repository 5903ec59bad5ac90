package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/aura/internal/renderer"
)

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() tea.View {
	content, cursor := m.render()
	v := tea.NewView(content)
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.Cursor = cursor
	return v
}

// gutterWidth is the line number column plus one space.
func (m Model) gutterWidth() int {
	return max(2, len(strconv.Itoa(m.editor.Document().LineCount()))) + 1
}

// render draws the current frame and returns the terminal cursor for the
// caret, or nil when the caret is hidden.
func (m Model) render() (string, *tea.Cursor) {
	if m.width == 0 || m.height == 0 {
		return "", nil
	}

	f := m.editor.Frame()
	gw := m.gutterWidth()
	tw := max(0, m.width-gw)
	top := int(f.ScrollTop)
	lineCount := m.editor.Document().LineCount()
	caretLine := f.Overlay.Caret.Line

	nodes := make(map[int]renderer.ViewNode, len(f.Nodes))
	for _, n := range f.Nodes {
		nodes[n.Line] = n
	}
	spans := make(map[int]renderer.Span, len(f.Overlay.Spans))
	for _, sp := range f.Overlay.Spans {
		spans[sp.Line] = sp
	}

	var b strings.Builder
	for row := range m.textRows() {
		line := top + row
		if line >= lineCount {
			b.WriteString(m.styles.Base.Render(strings.Repeat(" ", m.width)))
			b.WriteByte('\n')
			continue
		}

		gutter := m.styles.Gutter
		if line == caretLine {
			gutter = m.styles.ActiveGutter
		}
		b.WriteString(gutter.Render(fmt.Sprintf("%*d ", gw-1, line+1)))

		n, ok := nodes[line]
		if !ok {
			text := m.editor.Document().Line(line)
			n = renderer.ViewNode{Line: line, Text: text, Markup: m.styles.Base.Render(tabs.Replace(text))}
		}
		markup := n.Markup
		if sp, ok := spans[line]; ok {
			markup = m.selectSpan(n, sp)
		}

		w := ansi.StringWidth(markup)
		if w > tw {
			markup = ansi.Truncate(markup, tw, "")
			w = ansi.StringWidth(markup)
		}
		b.WriteString(markup)
		if w < tw {
			pad := m.styles.Base
			if f.Overlay.ActiveLineVisible && line == caretLine {
				pad = m.styles.ActiveLine
			}
			b.WriteString(pad.Render(strings.Repeat(" ", tw-w)))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.renderStatus())

	if !f.Overlay.CaretVisible {
		return b.String(), nil
	}
	x, y := gw+f.Overlay.Caret.Col, caretLine-top
	if y < 0 || y >= m.textRows() || x >= m.width {
		return b.String(), nil
	}
	c := tea.NewCursor(x, y)
	c.Color = m.styles.Cursor
	return b.String(), c
}

// selectSpan repaints the selected columns of a line over its markup.
func (m Model) selectSpan(n renderer.ViewNode, sp renderer.Span) string {
	runes := []rune(tabs.Replace(n.Text))
	from := min(sp.StartCol, len(runes))
	to := min(max(sp.EndCol, from), len(runes))

	var b strings.Builder
	b.WriteString(ansi.Cut(n.Markup, 0, from))
	b.WriteString(m.styles.Selection.Render(string(runes[from:to])))
	b.WriteString(ansi.Cut(n.Markup, to, len(runes)))
	if sp.Newline {
		b.WriteString(m.styles.Selection.Render(" "))
	}
	return b.String()
}

// renderStatus draws the file name and the caret location. The location
// keeps its tail when space runs out; the file name gives way first.
func (m Model) renderStatus() string {
	name := m.path
	if name == "" {
		name = "[scratch]"
	}
	right := m.editor.Location() + " "
	rw := ansi.StringWidth(right)
	if rw > m.width {
		right = ansi.TruncateLeft(right, rw-m.width, "")
		rw = ansi.StringWidth(right)
	}

	left := ""
	if room := m.width - rw - 1; room > 0 {
		left = ansi.Truncate(" "+name, room, "…")
	}
	gap := max(0, m.width-ansi.StringWidth(left)-rw)
	return m.styles.Status.Render(left + strings.Repeat(" ", gap) + right)
}
