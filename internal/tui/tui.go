// Package tui hosts an editor in a bubbletea program: keystrokes and mouse
// events go onto the editor's bus and each frame is drawn as styled rows.
package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/xonecas/aura/internal/config"
	"github.com/xonecas/aura/internal/editor"
	"github.com/xonecas/aura/internal/highlight"
	"github.com/xonecas/aura/internal/worker"
)

// statusRows is the height of the status bar under the text.
const statusRows = 1

// Model is the application model.
type Model struct {
	editor *editor.Editor
	input  *Input
	keys   KeyMap
	styles Styles
	path   string

	width  int
	height int
}

// CellConfig adapts cfg to a character grid: one row per line and one cell
// per character.
func CellConfig(cfg *config.Config) *config.Config {
	c := *cfg
	c.Editor.LineHeight = 1
	c.Editor.FontSize = 1
	return &c
}

// New creates an editor for a terminal and loads text into it. path is only
// shown in the status bar.
func New(cfg *config.Config, path, text string) (Model, error) {
	cfg = CellConfig(cfg)
	palette, err := highlight.ThemePalette(cfg.Editor.Theme)
	if err != nil {
		return Model{}, err
	}

	in := &Input{}
	ed, err := editor.New(cfg, editor.Collaborators{
		Input:   in,
		Metrics: CellMetrics{},
		Painter: NewANSIPainter(palette),
	})
	if err != nil {
		return Model{}, err
	}
	in.Attach(ed.Bus())
	ed.SetText(text)
	ed.Focus()

	return Model{
		editor: ed,
		input:  in,
		keys:   DefaultKeyMap(),
		styles: NewStyles(palette),
		path:   path,
	}, nil
}

// Editor returns the hosted editor.
func (m Model) Editor() *editor.Editor { return m.editor }

// Init starts listening for background formatting results.
func (m Model) Init() tea.Cmd {
	return waitForWorker(m.editor.Worker())
}

// workerMsg carries formatted markup back to the UI goroutine.
type workerMsg struct{ resp worker.Response }

// waitForWorker waits for the next worker response (ELM Cmd).
func waitForWorker(w *worker.Worker) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		return workerMsg{resp: <-w.Responses()}
	}
}

// textRows is the number of document rows on screen.
func (m Model) textRows() int { return max(0, m.height-statusRows) }
