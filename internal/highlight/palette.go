package highlight

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/xonecas/aura/internal/tokenizer"
)

// ThemeExists reports whether name is a registered Chroma style.
func ThemeExists(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Themes returns the registered theme names, sorted.
func Themes() []string {
	names := make([]string, 0, len(styles.Registry))
	for n := range styles.Registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Palette holds editor colors derived deterministically from a Chroma theme.
// The gutter and active-line shades interpolate from bg to fg; the accent is
// the most saturated token color.
type Palette struct {
	Bg         string
	Fg         string
	Gutter     string // 35% bg→fg, line numbers
	ActiveLine string // 7% bg→fg
	Selection  string // 30% bg→accent
	Accent     string // cursor

	// Kinds maps every token kind to a foreground color.
	Kinds map[tokenizer.Kind]string
}

// kindTokens is the Chroma type whose style colors each token kind.
var kindTokens = []struct {
	kind tokenizer.Kind
	tt   chroma.TokenType
}{
	{tokenizer.Keyword, chroma.Keyword},
	{tokenizer.Boolean, chroma.KeywordConstant},
	{tokenizer.Operator, chroma.Operator},
	{tokenizer.Number, chroma.LiteralNumber},
	{tokenizer.String, chroma.LiteralString},
	{tokenizer.Comment, chroma.Comment},
}

// ThemePalette derives the palette for a registered theme. Unknown themes
// are an error.
func ThemePalette(name string) (Palette, error) {
	sty, ok := styles.Registry[name]
	if !ok {
		return Palette{}, fmt.Errorf("highlight: unknown theme %q", name)
	}

	entry := sty.Get(chroma.Background)
	bg := "#000000"
	fg := "#c8c8c8"
	if entry.Background.IsSet() {
		bg = entry.Background.String()
	}
	if entry.Colour.IsSet() {
		fg = entry.Colour.String()
	}
	accent := pickAccent(sty, fg)

	p := Palette{
		Bg:         bg,
		Fg:         fg,
		Gutter:     lerpHex(bg, fg, 0.35),
		ActiveLine: lerpHex(bg, fg, 0.07),
		Selection:  lerpHex(bg, accent, 0.30),
		Accent:     accent,
		Kinds:      map[tokenizer.Kind]string{tokenizer.Plain: fg},
	}
	for _, kt := range kindTokens {
		p.Kinds[kt.kind] = fg
		if e := sty.Get(kt.tt); e.Colour.IsSet() {
			p.Kinds[kt.kind] = e.Colour.String()
		}
	}
	return p, nil
}

// CSS renders a stylesheet for the token spans and overlays produced by
// the HTML painter.
func (p Palette) CSS() string {
	var b strings.Builder
	fmt.Fprintf(&b, ".aura-editor { background-color: %s; color: %s; }\n", p.Bg, p.Fg)
	fmt.Fprintf(&b, ".aura-line-number { color: %s; }\n", p.Gutter)
	fmt.Fprintf(&b, ".aura-active-line { background-color: %s; }\n", p.ActiveLine)
	fmt.Fprintf(&b, ".aura-selection { background-color: %s; }\n", p.Selection)
	fmt.Fprintf(&b, ".aura-cursor { border-left-color: %s; }\n", p.Accent)

	kinds := make([]tokenizer.Kind, 0, len(p.Kinds))
	for k := range p.Kinds {
		if k != tokenizer.Plain {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		fmt.Fprintf(&b, ".aura-token.%s { color: %s; }\n", k, p.Kinds[k])
	}
	return b.String()
}

// pickAccent returns the most saturated foreground color across all tokens.
func pickAccent(sty *chroma.Style, fallback string) string {
	best := fallback
	bestSat := 0.0
	for _, tt := range sty.Types() {
		e := sty.Get(tt)
		if !e.Colour.IsSet() {
			continue
		}
		hex := e.Colour.String()
		r, g, b := hexToRGBf(hex)
		mx := max(r, g, b)
		mn := min(r, g, b)
		if mx == 0 {
			continue
		}
		if sat := (mx - mn) / mx; sat > bestSat {
			bestSat = sat
			best = hex
		}
	}
	return best
}

// lerpHex linearly interpolates between two hex colors at fraction t.
func lerpHex(a, b string, t float64) string {
	ar, ag, ab := hexToRGBf(a)
	br, bg, bb := hexToRGBf(b)
	return fmt.Sprintf("#%02x%02x%02x",
		clampByte(ar+(br-ar)*t),
		clampByte(ag+(bg-ag)*t),
		clampByte(ab+(bb-ab)*t),
	)
}

func hexToRGBf(hex string) (float64, float64, float64) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	return float64(hexByte(hex[1], hex[2])),
		float64(hexByte(hex[3], hex[4])),
		float64(hexByte(hex[5], hex[6]))
}

func hexByte(hi, lo byte) int {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

func clampByte(v float64) int {
	return int(min(max(v, 0), 255) + 0.5)
}
