// Package tokenizer is a single-pass, line-local lexer that classifies
// identifiers against a flat keyword table and paints the visible lines of a
// document.
package tokenizer

import (
	"strings"

	"github.com/xonecas/aura/internal/viewport"
)

var specialWords = map[string]Kind{
	"const":    Keyword,
	"let":      Keyword,
	"var":      Keyword,
	"function": Keyword,
	"return":   Keyword,
	"import":   Keyword,
	"export":   Keyword,
	"from":     Keyword,
	"default":  Keyword,
	"else":     Keyword,
	"if":       Keyword,
	"for":      Keyword,
	"while":    Keyword,
	"do":       Keyword,
	"async":    Keyword,
	"await":    Keyword,
	"switch":   Keyword,
	"case":     Keyword,
	"break":    Keyword,
	"continue": Keyword,
	"try":      Keyword,
	"catch":    Keyword,
	"throw":    Keyword,
	"class":    Keyword,
	"extends":  Keyword,
	"new":      Keyword,
	"yield":    Keyword,

	"true":  Boolean,
	"false": Boolean,

	"typeof":     Operator,
	"instanceof": Operator,
}

// Token is a run of text with one classification.
type Token struct {
	Kind Kind
	Text string
}

// Formatter paints one line of text.
type Formatter interface {
	FormatLine(line string) string
}

// Tokenizer classifies and paints lines. It keeps no state between lines, so
// one instance may be shared with a background worker.
type Tokenizer struct {
	cache *Cache
}

// New creates a tokenizer painting with p through a cache bounded by opts.
func New(p Painter, opts CacheOptions) *Tokenizer {
	return &Tokenizer{cache: NewCache(p, opts)}
}

// Cache returns the tokenizer's paint cache.
func (t *Tokenizer) Cache() *Cache { return t.cache }

// Tokens splits line into classified tokens. Adjacent plain text is merged.
// Quote state is reset per line; an unterminated quote runs to end of line.
func Tokens(line string) []Token {
	var (
		toks []Token
		word []rune
	)
	emit := func(kind Kind, text string) {
		if kind == Plain && len(toks) > 0 && toks[len(toks)-1].Kind == Plain {
			toks[len(toks)-1].Text += text
			return
		}
		toks = append(toks, Token{Kind: kind, Text: text})
	}
	flush := func() {
		if len(word) == 0 {
			return
		}
		w := string(word)
		emit(classifyWord(w), w)
		word = word[:0]
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case isQuote(r):
			flush()
			end := i + 1
			for end < len(runes) && runes[end] != r {
				end++
			}
			if end < len(runes) {
				end++ // closing quote
			}
			emit(String, string(runes[i:end]))
			i = end - 1
		case IsSeparator(r):
			flush()
			emit(Plain, string(r))
		default:
			word = append(word, r)
		}
	}
	flush()
	return toks
}

func classifyWord(w string) Kind {
	if k, ok := specialWords[w]; ok {
		return k
	}
	if allDigits(w) {
		return Number
	}
	return Plain
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatLine paints a single line.
func (t *Tokenizer) FormatLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return t.cache.Painter().Blank(line)
	}
	var b strings.Builder
	for _, tok := range Tokens(line) {
		b.WriteString(t.cache.Paint(tok.Kind, tok.Text))
	}
	return b.String()
}

// FormatRange paints lines[r.First..r.Last] with t.
func (t *Tokenizer) FormatRange(lines []string, r viewport.Range) []string {
	return FormatRange(t, lines, r)
}

// FormatRange paints only the lines inside r. Indexes past the end of lines
// paint as blank lines.
func FormatRange(f Formatter, lines []string, r viewport.Range) []string {
	if r.Last < r.First {
		return nil
	}
	return FormatLines(f, VisibleLines(lines, r))
}

// FormatLines paints every line with f.
func FormatLines(f Formatter, lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = f.FormatLine(line)
	}
	return out
}

// VisibleLines copies lines[r.First..r.Last]. Indexes outside lines come
// back empty.
func VisibleLines(lines []string, r viewport.Range) []string {
	if r.Last < r.First {
		return nil
	}
	out := make([]string, 0, r.Len())
	for i := r.First; i <= r.Last; i++ {
		text := ""
		if i >= 0 && i < len(lines) {
			text = lines[i]
		}
		out = append(out, text)
	}
	return out
}
