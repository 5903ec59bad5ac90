package tokenizer

import "strings"

// Kind classifies a token for painting.
type Kind int

const (
	Plain Kind = iota
	Keyword
	Boolean
	Operator
	Number
	String
	// Comment is only produced by grammar-aware highlighters; the built-in
	// tokenizer has no comment state.
	Comment
)

func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Keyword:
		return "keyword"
	case Boolean:
		return "boolean"
	case Operator:
		return "operator"
	case Number:
		return "number"
	case String:
		return "string"
	case Comment:
		return "comment"
	default:
		return "unknown"
	}
}

// Painter turns classified text into display markup.
type Painter interface {
	// Paint renders text of the given kind. Plain text must still be made
	// safe for the target surface.
	Paint(kind Kind, text string) string
	// Blank renders a line that holds only whitespace.
	Blank(line string) string
}

// htmlEntities mirrors the entity table used for all markup in the editor.
var htmlEntities = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"/", "&#x2F;",
	"`", "&#x60;",
	"=", "&#x3D;",
)

// EscapeHTML escapes text for safe inclusion in markup.
func EscapeHTML(text string) string {
	return htmlEntities.Replace(text)
}

// HTMLPainter wraps classified tokens in spans carrying the token class and
// the language mode, e.g. <span class="aura-token js keyword">const</span>.
type HTMLPainter struct {
	Mode string
}

func (p HTMLPainter) Paint(kind Kind, text string) string {
	if kind == Plain {
		return EscapeHTML(text)
	}
	var b strings.Builder
	b.Grow(len(text) + 40)
	b.WriteString(`<span class="aura-token `)
	b.WriteString(p.Mode)
	b.WriteByte(' ')
	b.WriteString(kind.String())
	b.WriteString(`">`)
	b.WriteString(EscapeHTML(text))
	b.WriteString("</span>")
	return b.String()
}

func (p HTMLPainter) Blank(string) string { return "&nbsp;" }
