package tokenizer

import "unicode"

// Class is the coarse character classification shared by the tokenizer and
// word-wise cursor motion.
type Class int

const (
	Word Class = iota
	Whitespace
	Separator
)

// Classify returns the class of r. Quote characters count as separators.
func Classify(r rune) Class {
	switch {
	case unicode.IsSpace(r):
		return Whitespace
	case isPunctSeparator(r), isQuote(r):
		return Separator
	default:
		return Word
	}
}

// IsSeparator reports whether r ends an identifier: whitespace or one of
// . , - : ; ( ) [ ] $ & { }
func IsSeparator(r rune) bool {
	return unicode.IsSpace(r) || isPunctSeparator(r)
}

func isPunctSeparator(r rune) bool {
	switch r {
	case '.', ',', '-', ':', ';', '(', ')', '[', ']', '$', '&', '{', '}':
		return true
	}
	return false
}

func isQuote(r rune) bool { return r == '"' || r == '\'' }
