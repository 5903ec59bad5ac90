package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xonecas/aura/internal/config"
	"github.com/xonecas/aura/internal/highlight"
	"github.com/xonecas/aura/internal/tui"
)

var version = "dev"

var (
	cfgFile    string
	debug      bool
	theme      string
	listThemes bool
)

var rootCmd = &cobra.Command{
	Use:           "aura [file]",
	Short:         "A small terminal code editor",
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/aura/config.toml)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.Flags().StringVarP(&theme, "theme", "t", "", "color theme")
	rootCmd.Flags().BoolVar(&listThemes, "list-themes", false, "print the available themes and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running aura: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if listThemes {
		for _, name := range highlight.Themes() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if theme != "" {
		cfg.Editor.Theme = theme
	}
	if debug {
		cfg.Log.Level = "debug"
	}

	closer, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	var path, text string
	if len(args) == 1 {
		path = args[0]
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			text = string(data)
		case errors.Is(err, os.ErrNotExist):
			log.Info().Str("path", path).Msg("aura: new file")
		default:
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if lang := highlight.DetectLanguage(path); lang != "text" {
			cfg.Editor.Language = lang
		}
	}

	m, err := tui.New(cfg, path, text)
	if err != nil {
		return err
	}
	defer m.Editor().Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithFilter(tui.NewMouseEventFilter()),
	)
	if w := m.Editor().Worker(); w != nil {
		g.Go(func() error { return w.Run(ctx) })
	}
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	return g.Wait()
}

// setupLogging sends the global logger to a file so it never draws over the
// editor.
func setupLogging(lc config.LogConfig) (io.Closer, error) {
	path := lc.File
	if path == "" {
		dir, err := config.EnsureDataDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "aura.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	zerolog.SetGlobalLevel(lc.ZerologLevel())
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	log.Debug().Str("path", path).Msg("aura: logging started")
	return f, nil
}
