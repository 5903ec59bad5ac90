package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// extLanguages covers extensions whose Chroma match is ambiguous or missing.
var extLanguages = map[string]string{
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "react",
	".ts":   "typescript",
	".tsx":  "tsx",
	".h":    "c",
	".conf": "nginx",
	".md":   "markdown",
}

// DetectLanguage returns the Chroma language name for path, or "text" when
// nothing matches.
func DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := extLanguages[ext]; ok {
		return lang
	}
	if lex := lexers.Match(filepath.Base(path)); lex != nil {
		return strings.ToLower(lex.Config().Name)
	}
	switch strings.ToLower(filepath.Base(path)) {
	case "dockerfile":
		return "docker"
	case "makefile":
		return "make"
	case "gemfile", "rakefile":
		return "ruby"
	}
	return "text"
}

// modes shortens common language names to the class used on token spans.
var modes = map[string]string{
	"javascript": "js",
	"typescript": "ts",
	"python":     "py",
	"markdown":   "md",
}

// Mode returns the short mode name written into token span classes.
func Mode(language string) string {
	language = strings.ToLower(language)
	if m, ok := modes[language]; ok {
		return m
	}
	return language
}

// LanguageExists reports whether Chroma has a lexer for language.
func LanguageExists(language string) bool {
	return lexers.Get(language) != nil
}
