// Package highlight provides a Chroma-backed line formatter and derives
// editor colors from Chroma themes.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/aura/internal/tokenizer"
)

// Chroma formats lines with a Chroma lexer, mapping token types onto the
// editor's token kinds and painting them through a tokenizer cache. Each
// line is lexed on its own, so constructs spanning lines are not recognized.
type Chroma struct {
	language string
	lexer    chroma.Lexer
	cache    *tokenizer.Cache
}

// NewChroma returns a formatter for language, painting through cache.
func NewChroma(language string, cache *tokenizer.Cache) (*Chroma, error) {
	lex := lexers.Get(language)
	if lex == nil {
		return nil, fmt.Errorf("highlight: unknown language %q", language)
	}
	return &Chroma{
		language: language,
		lexer:    chroma.Coalesce(lex),
		cache:    cache,
	}, nil
}

// Language returns the name the formatter was created with.
func (c *Chroma) Language() string { return c.language }

// Tokens lexes line and returns kind-classified runs. Adjacent runs of the
// same kind are merged.
func (c *Chroma) Tokens(line string) []tokenizer.Token {
	it, err := c.lexer.Tokenise(nil, line)
	if err != nil {
		log.Debug().Err(err).Str("language", c.language).Msg("highlight: tokenise failed")
		return []tokenizer.Token{{Kind: tokenizer.Plain, Text: line}}
	}
	var toks []tokenizer.Token
	for _, t := range it.Tokens() {
		text := strings.TrimRight(t.Value, "\n")
		if text == "" {
			continue
		}
		kind := KindOf(t.Type)
		if n := len(toks); n > 0 && toks[n-1].Kind == kind {
			toks[n-1].Text += text
			continue
		}
		toks = append(toks, tokenizer.Token{Kind: kind, Text: text})
	}
	return toks
}

// FormatLine paints one line.
func (c *Chroma) FormatLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return c.cache.Painter().Blank(line)
	}
	var b strings.Builder
	for _, t := range c.Tokens(line) {
		b.WriteString(c.cache.Paint(t.Kind, t.Text))
	}
	return b.String()
}

// KindOf maps a Chroma token type to a token kind.
func KindOf(tt chroma.TokenType) tokenizer.Kind {
	switch {
	case tt == chroma.KeywordConstant:
		return tokenizer.Boolean
	case tt.InCategory(chroma.Keyword):
		return tokenizer.Keyword
	case tt == chroma.OperatorWord, tt.InCategory(chroma.Operator):
		return tokenizer.Operator
	case tt.InSubCategory(chroma.LiteralString):
		return tokenizer.String
	case tt.InSubCategory(chroma.LiteralNumber):
		return tokenizer.Number
	case tt.InCategory(chroma.Comment):
		return tokenizer.Comment
	default:
		return tokenizer.Plain
	}
}
