package tui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/xonecas/aura/internal/highlight"
	"github.com/xonecas/aura/internal/tokenizer"
)

// Styles are the lipgloss styles derived from a theme palette.
type Styles struct {
	Base         lipgloss.Style
	Gutter       lipgloss.Style
	ActiveGutter lipgloss.Style
	ActiveLine   lipgloss.Style
	Selection    lipgloss.Style
	Status       lipgloss.Style
	Cursor       color.Color
}

// NewStyles builds the view styles for p.
func NewStyles(p highlight.Palette) Styles {
	bg := lipgloss.Color(p.Bg)
	base := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Fg))
	return Styles{
		Base:         base,
		Gutter:       base.Foreground(lipgloss.Color(p.Gutter)),
		ActiveGutter: base.Foreground(lipgloss.Color(p.Accent)),
		ActiveLine:   base.Background(lipgloss.Color(p.ActiveLine)),
		Selection:    base.Background(lipgloss.Color(p.Selection)),
		Status:       base.Background(lipgloss.Color(p.ActiveLine)),
		Cursor:       lipgloss.Color(p.Accent),
	}
}

// tabs become a single cell so rune columns and screen cells line up.
var tabs = strings.NewReplacer("\t", " ")

// ANSIPainter paints token runs as styled terminal text in theme colors.
type ANSIPainter struct {
	base  lipgloss.Style
	kinds map[tokenizer.Kind]lipgloss.Style
}

// NewANSIPainter returns a painter for the kinds in p.
func NewANSIPainter(p highlight.Palette) ANSIPainter {
	base := lipgloss.NewStyle().Background(lipgloss.Color(p.Bg)).Foreground(lipgloss.Color(p.Fg))
	kinds := make(map[tokenizer.Kind]lipgloss.Style, len(p.Kinds))
	for k, c := range p.Kinds {
		kinds[k] = base.Foreground(lipgloss.Color(c))
	}
	return ANSIPainter{base: base, kinds: kinds}
}

func (p ANSIPainter) Paint(kind tokenizer.Kind, text string) string {
	st, ok := p.kinds[kind]
	if !ok {
		st = p.base
	}
	return st.Render(tabs.Replace(text))
}

// Blank keeps whitespace-only lines at full width so selection cuts line up.
func (p ANSIPainter) Blank(line string) string {
	if line == "" {
		return ""
	}
	return p.base.Render(tabs.Replace(line))
}
