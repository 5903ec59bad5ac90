// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/xonecas/aura/internal/highlight"
	"github.com/xonecas/aura/internal/tokenizer"
)

// Highlighter names accepted by editor.highlighter.
const (
	HighlighterBuiltin = "builtin"
	HighlighterChroma  = "chroma"
)

// Config is the root configuration structure.
type Config struct {
	Editor    EditorConfig    `toml:"editor"`
	Tokenizer TokenizerConfig `toml:"tokenizer"`
	Log       LogConfig       `toml:"log"`
}

// EditorConfig holds the settings of one editor instance.
type EditorConfig struct {
	FontFamily    string  `toml:"font_family"`
	FontSize      float64 `toml:"font_size"`
	LineHeight    float64 `toml:"line_height"`
	LineOverscan  int     `toml:"line_overscan"`
	LineSeparator string  `toml:"line_separator"`

	IndentString     string `toml:"indent_string"`
	TabInsertsIndent bool   `toml:"tab_inserts_indent"`
	AutoIndent       bool   `toml:"auto_indent"`

	// Theme is a Chroma style name. Editor colors are derived from it via
	// highlight.ThemePalette.
	Theme string `toml:"theme"`
	// Highlighter selects the line formatter: "builtin" or "chroma".
	Highlighter string `toml:"highlighter"`
	// Language is the Chroma lexer used by the chroma highlighter and the
	// mode written into token classes.
	Language string `toml:"language"`
}

// TokenizerConfig bounds the token cache and enables background formatting.
type TokenizerConfig struct {
	CacheTTLSeconds     int  `toml:"cache_ttl_seconds"`
	CacheCleanupSeconds int  `toml:"cache_cleanup_seconds"`
	CacheMaxEntries     int  `toml:"cache_max_entries"`
	Offload             bool `toml:"offload"`
}

// CacheOptions converts the settings for tokenizer.NewCache.
func (t TokenizerConfig) CacheOptions() tokenizer.CacheOptions {
	return tokenizer.CacheOptions{
		TTL:             time.Duration(t.CacheTTLSeconds) * time.Second,
		CleanupInterval: time.Duration(t.CacheCleanupSeconds) * time.Second,
		MaxEntries:      t.CacheMaxEntries,
	}
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	// File is where logs are written. Defaults to aura.log in the data dir.
	File string `toml:"file"`
}

// ZerologLevel returns the parsed level, or info when unset.
func (l LogConfig) ZerologLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			FontFamily:       "Consolas, monospace",
			FontSize:         16,
			LineHeight:       24,
			LineOverscan:     5,
			LineSeparator:    "\n",
			IndentString:     "  ",
			TabInsertsIndent: true,
			AutoIndent:       true,
			Theme:            "vulcan",
			Highlighter:      HighlighterBuiltin,
			Language:         "javascript",
		},
		Tokenizer: TokenizerConfig{
			CacheTTLSeconds:     int(tokenizer.DefaultCacheTTL / time.Second),
			CacheCleanupSeconds: int(tokenizer.DefaultCacheCleanup / time.Second),
			CacheMaxEntries:     tokenizer.DefaultCacheMaxEntries,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a TOML file on top of the defaults and
// applies environment variable overrides. An empty path loads config.toml
// from the data directory when present, and the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := DataDir()
		if err == nil {
			if p := filepath.Join(dir, "config.toml"); fileExists(p) {
				path = p
			}
		}
	} else if !fileExists(path) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error
	e := c.Editor

	if e.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("editor.font_size=%v must be positive", e.FontSize))
	}
	if e.LineHeight <= 0 {
		errs = append(errs, fmt.Errorf("editor.line_height=%v must be positive", e.LineHeight))
	}
	if e.LineOverscan < 0 {
		errs = append(errs, fmt.Errorf("editor.line_overscan=%d must not be negative", e.LineOverscan))
	}
	if e.LineSeparator == "" {
		errs = append(errs, errors.New("editor.line_separator is required"))
	}
	if strings.Trim(e.IndentString, " \t") != "" {
		errs = append(errs, fmt.Errorf("editor.indent_string=%q must only contain spaces or tabs", e.IndentString))
	}
	if !highlight.ThemeExists(e.Theme) {
		errs = append(errs, fmt.Errorf("editor.theme=%q is not a known theme", e.Theme))
	}
	switch e.Highlighter {
	case HighlighterBuiltin:
	case HighlighterChroma:
		if !highlight.LanguageExists(e.Language) {
			errs = append(errs, fmt.Errorf("editor.language=%q has no lexer", e.Language))
		}
	default:
		errs = append(errs, fmt.Errorf("editor.highlighter=%q must be %q or %q", e.Highlighter, HighlighterBuiltin, HighlighterChroma))
	}

	t := c.Tokenizer
	if t.CacheTTLSeconds < 0 || t.CacheCleanupSeconds < 0 || t.CacheMaxEntries < 0 {
		errs = append(errs, errors.New("tokenizer: cache settings must not be negative"))
	}

	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			errs = append(errs, fmt.Errorf("log.level=%q is invalid: %v", c.Log.Level, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	var errs []error
	for _, setter := range []struct {
		env   string
		apply func(string) error
	}{
		{"AURA_THEME", func(v string) error {
			cfg.Editor.Theme = v
			return nil
		}},
		{"AURA_HIGHLIGHTER", func(v string) error {
			cfg.Editor.Highlighter = v
			return nil
		}},
		{"AURA_LANGUAGE", func(v string) error {
			cfg.Editor.Language = v
			return nil
		}},
		{"AURA_LINE_OVERSCAN", func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			cfg.Editor.LineOverscan = n
			return nil
		}},
		{"AURA_TOKENIZER_OFFLOAD", func(v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			cfg.Tokenizer.Offload = b
			return nil
		}},
		{"AURA_LOG_LEVEL", func(v string) error {
			cfg.Log.Level = v
			return nil
		}},
		{"AURA_LOG_FILE", func(v string) error {
			cfg.Log.File = v
			return nil
		}},
	} {
		v := os.Getenv(setter.env)
		if v == "" {
			continue
		}
		if err := setter.apply(v); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", setter.env, v, err))
		}
	}
	return errors.Join(errs...)
}

// DataDir returns the path to the aura data directory (~/.config/aura).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "aura"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
