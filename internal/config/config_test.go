package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 5, cfg.Editor.LineOverscan)
	require.Equal(t, "\n", cfg.Editor.LineSeparator)
	require.Equal(t, HighlighterBuiltin, cfg.Editor.Highlighter)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[editor]
font_size = 14
line_height = 20
theme = "monokai"
highlighter = "chroma"
language = "go"

[tokenizer]
cache_max_entries = 16
cache_ttl_seconds = 30
offload = true

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 14.0, cfg.Editor.FontSize)
	require.Equal(t, 20.0, cfg.Editor.LineHeight)
	require.Equal(t, "monokai", cfg.Editor.Theme)
	require.Equal(t, HighlighterChroma, cfg.Editor.Highlighter)
	// Untouched keys keep their defaults.
	require.Equal(t, "  ", cfg.Editor.IndentString)
	require.True(t, cfg.Editor.AutoIndent)

	opts := cfg.Tokenizer.CacheOptions()
	require.Equal(t, 16, opts.MaxEntries)
	require.Equal(t, 30*time.Second, opts.TTL)
	require.True(t, cfg.Tokenizer.Offload)
	require.Equal(t, zerolog.DebugLevel, cfg.Log.ZerologLevel())
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `
[editor]
font_size = 14
tab_width = 4
`)

	_, err := Load(path)
	require.ErrorContains(t, err, "editor.tab_width")
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, "[editor\n")

	_, err := Load(path)
	require.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorContains(t, err, "config file not found")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[editor]\ntheme = \"monokai\"\n")
	t.Setenv("AURA_THEME", "dracula")
	t.Setenv("AURA_LINE_OVERSCAN", "2")
	t.Setenv("AURA_TOKENIZER_OFFLOAD", "true")
	t.Setenv("AURA_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "dracula", cfg.Editor.Theme)
	require.Equal(t, 2, cfg.Editor.LineOverscan)
	require.True(t, cfg.Tokenizer.Offload)
	require.Equal(t, zerolog.WarnLevel, cfg.Log.ZerologLevel())
}

func TestLoad_BadEnvValue(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("AURA_LINE_OVERSCAN", "lots")

	_, err := Load(path)
	require.ErrorContains(t, err, "AURA_LINE_OVERSCAN")
}

func TestLoad_EmptyPathUsesDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	dir, err := EnsureDataDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "aura"), dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[editor]\nline_overscan = 9\n"), 0600))

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, 9, cfg.Editor.LineOverscan)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Editor.FontSize = 0
	cfg.Editor.LineHeight = -1
	cfg.Editor.LineOverscan = -2
	cfg.Editor.IndentString = "xx"
	cfg.Editor.Theme = "no-such-theme"
	cfg.Editor.Highlighter = "regex"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"editor.font_size",
		"editor.line_height",
		"editor.line_overscan",
		"editor.indent_string",
		"editor.theme",
		"editor.highlighter",
		"log.level",
	} {
		require.ErrorContains(t, err, want)
	}
}

func TestValidate_ChromaNeedsLexer(t *testing.T) {
	cfg := Default()
	cfg.Editor.Highlighter = HighlighterChroma
	cfg.Editor.Language = "no-such-language-xyz"

	require.ErrorContains(t, cfg.Validate(), "editor.language")
}

func TestLogConfig_DefaultLevel(t *testing.T) {
	require.Equal(t, zerolog.InfoLevel, LogConfig{}.ZerologLevel())
}
