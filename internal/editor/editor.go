// Package editor assembles one editor instance: document, bus, session,
// formatter and renderer, plus the scroll state that drives the viewport.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/aura/internal/config"
	"github.com/xonecas/aura/internal/document"
	"github.com/xonecas/aura/internal/eventbus"
	"github.com/xonecas/aura/internal/highlight"
	"github.com/xonecas/aura/internal/renderer"
	"github.com/xonecas/aura/internal/selection"
	"github.com/xonecas/aura/internal/session"
	"github.com/xonecas/aura/internal/tokenizer"
	"github.com/xonecas/aura/internal/viewport"
	"github.com/xonecas/aura/internal/worker"
)

// workerQueue is how many format requests may wait for the worker.
const workerQueue = 4

// Collaborators are the host-provided pieces of an editor.
type Collaborators struct {
	Input   session.Input
	Metrics session.FontMetrics
	// Painter turns token runs into host markup. Defaults to the HTML
	// painter in the configured language's mode.
	Painter tokenizer.Painter
}

// Frame is everything a host needs to draw one pass.
type Frame struct {
	Range     viewport.Range
	Strategy  renderer.Strategy
	Nodes     []renderer.ViewNode
	Overlay   renderer.Overlay
	ScrollTop float64

	TextWidth  float64
	TextHeight float64
}

// Editor is a single editor instance. It is not safe for concurrent use;
// everything except the worker runs on the host's UI goroutine.
type Editor struct {
	cfg     *config.Config
	doc     *document.Document
	bus     *eventbus.Bus
	session *session.Session
	palette highlight.Palette

	cache    *tokenizer.Cache
	renderer *renderer.Renderer
	worker   *worker.Worker
	applied  int

	scrollTop    float64
	clientWidth  float64
	clientHeight float64
	lineCount    int

	unsubs []func()
}

// New creates an editor with an empty document. The configuration is
// validated first; an invalid one is returned as an error.
func New(cfg *config.Config, c Collaborators) (*Editor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid editor config: %w", err)
	}
	ec := cfg.Editor

	palette, err := highlight.ThemePalette(ec.Theme)
	if err != nil {
		return nil, err
	}

	painter := c.Painter
	if painter == nil {
		painter = tokenizer.HTMLPainter{Mode: highlight.Mode(ec.Language)}
	}

	var (
		formatter tokenizer.Formatter
		cache     *tokenizer.Cache
	)
	switch ec.Highlighter {
	case config.HighlighterChroma:
		cache = tokenizer.NewCache(painter, cfg.Tokenizer.CacheOptions())
		ch, err := highlight.NewChroma(ec.Language, cache)
		if err != nil {
			return nil, err
		}
		formatter = ch
	case config.HighlighterBuiltin:
		tok := tokenizer.New(painter, cfg.Tokenizer.CacheOptions())
		cache = tok.Cache()
		formatter = tok
	default:
		return nil, errors.New("editor: no highlighter configured")
	}

	doc := document.New("")
	doc.Separator = ec.LineSeparator
	bus := eventbus.New()

	e := &Editor{
		cfg:       cfg,
		doc:       doc,
		bus:       bus,
		palette:   palette,
		cache:     cache,
		lineCount: doc.LineCount(),
	}
	e.session = session.New(doc, bus, c.Input, c.Metrics, session.Options{
		FontFamily:       ec.FontFamily,
		FontSize:         ec.FontSize,
		LineHeight:       ec.LineHeight,
		IndentString:     ec.IndentString,
		AutoIndent:       ec.AutoIndent,
		TabInsertsIndent: ec.TabInsertsIndent,
	})

	if cfg.Tokenizer.Offload {
		e.worker = worker.New(formatter, workerQueue)
		e.renderer = renderer.New(doc, plainFormatter{painter}, ec.LineHeight)
	} else {
		e.renderer = renderer.New(doc, formatter, ec.LineHeight)
	}

	e.unsubs = append(e.unsubs, bus.SelectionChange.Subscribe(e.onSelectionChange))

	log.Debug().
		Str("highlighter", ec.Highlighter).
		Str("language", ec.Language).
		Str("theme", ec.Theme).
		Bool("offload", cfg.Tokenizer.Offload).
		Msg("editor: created")

	return e, nil
}

// Close drops all bus subscriptions.
func (e *Editor) Close() {
	for _, u := range e.unsubs {
		u()
	}
	e.unsubs = nil
	e.session.Close()
}

func (e *Editor) Document() *document.Document { return e.doc }
func (e *Editor) Bus() *eventbus.Bus { return e.bus }
func (e *Editor) Session() *session.Session { return e.session }
func (e *Editor) Selection() *selection.Selection { return e.session.Selection() }
func (e *Editor) Palette() highlight.Palette { return e.palette }
func (e *Editor) Config() *config.Config { return e.cfg }

// RenderStats and CacheStats expose the renderer and token cache counters.
func (e *Editor) RenderStats() renderer.Stats { return e.renderer.Stats() }
func (e *Editor) CacheStats() tokenizer.CacheStats { return e.cache.Stats() }

// Worker returns the background formatter, or nil when offload is off. The
// host runs it and passes its responses to Deliver.
func (e *Editor) Worker() *worker.Worker { return e.worker }

// SetText replaces the document, moves the caret to the start and scrolls to
// the top.
func (e *Editor) SetText(text string) {
	e.doc.SetText(text)
	e.scrollTop = 0
	e.renderer.Invalidate()
	e.Selection().SetCursorPosition(0, 0)
}

// Text returns the document joined by the configured separator.
func (e *Editor) Text() string { return e.doc.Text() }

// Focus and Blur toggle caret visibility and input focus.
func (e *Editor) Focus() { e.session.Focus() }
func (e *Editor) Blur() { e.session.Blur() }

// Location describes the caret or selection for assistive technology.
func (e *Editor) Location() string { return e.session.Location() }

// SetFont changes the font and forces the next frame to rebuild.
func (e *Editor) SetFont(family string, size float64) {
	e.session.SetFont(family, size)
	e.renderer.Invalidate()
}

// Resize sets the client area and forces the next frame to rebuild.
func (e *Editor) Resize(width, height float64) {
	e.clientWidth = max(0, width)
	e.clientHeight = max(0, height)
	e.scrollTop = e.clampScroll(e.scrollTop)
	e.renderer.Invalidate()
}

// ClientSize returns the size last passed to Resize.
func (e *Editor) ClientSize() (width, height float64) { return e.clientWidth, e.clientHeight }

// ScrollTop returns the current vertical scroll offset.
func (e *Editor) ScrollTop() float64 { return e.scrollTop }

// ScrollTo sets the scroll offset, clamped to the scrollable extent.
func (e *Editor) ScrollTo(top float64) { e.scrollTop = e.clampScroll(top) }

// ScrollBy moves the scroll offset by dy.
func (e *Editor) ScrollBy(dy float64) { e.ScrollTo(e.scrollTop + dy) }

// Visible returns the range the next frame will render.
func (e *Editor) Visible() viewport.Range {
	return viewport.Calculate(e.metrics())
}

// MouseDown, MouseMove and MouseUp take coordinates relative to the client
// area and translate them into document space.
func (e *Editor) MouseDown(x, y float64) { e.Selection().OnMouseDown(x, y+e.scrollTop) }
func (e *Editor) MouseMove(x, y float64) { e.Selection().OnMouseMove(x, y+e.scrollTop) }
func (e *Editor) MouseUp() { e.Selection().OnMouseUp() }

// Frame renders the visible range and computes the overlay. With offload on,
// changed ranges are posted to the worker and nodes carry plain markup until
// Deliver applies the highlighted form.
func (e *Editor) Frame() Frame {
	if n := e.doc.LineCount(); n != e.lineCount {
		e.lineCount = n
		e.scrollTop = e.clampScroll(e.scrollTop)
		e.renderer.Invalidate()
	}

	vr := e.Visible()
	before := e.renderer.Stats()
	strategy := e.renderer.Render(vr, e.scrollTop)
	after := e.renderer.Stats()

	if e.worker != nil && (strategy != renderer.StrategyPatch || after.Patched != before.Patched) {
		e.post(vr)
	}

	cw := e.session.CharacterWidth()
	width, height := viewport.TextDimensions(e.doc.LineCount(), e.doc.LongestLineLength(), e.cfg.Editor.LineHeight, cw)
	return Frame{
		Range:      vr,
		Strategy:   strategy,
		Nodes:      e.renderer.Nodes(),
		Overlay:    e.renderer.Overlay(e.Selection().Snapshot(), vr, e.session.Focused(), cw),
		ScrollTop:  e.scrollTop,
		TextWidth:  width,
		TextHeight: height,
	}
}

// Deliver applies a worker response. Stale responses are dropped. It
// reports whether any node changed.
func (e *Editor) Deliver(resp worker.Response) bool {
	if e.worker == nil {
		return false
	}
	e.applied = 0
	return e.worker.Deliver(resp) && e.applied > 0
}

func (e *Editor) post(vr viewport.Range) {
	_, err := e.worker.Post(e.doc.Lines(), vr, func(resp worker.Response) {
		e.applied = e.renderer.ApplyMarkup(resp.Range.First, resp.Texts, resp.Markup)
		log.Debug().Uint64("seq", resp.Seq).Int("applied", e.applied).Msg("editor: worker markup")
	})
	if err != nil {
		log.Debug().Err(err).Msg("editor: format request not queued")
	}
}

func (e *Editor) metrics() viewport.Metrics {
	lh := e.cfg.Editor.LineHeight
	return viewport.Metrics{
		ScrollTop:    e.scrollTop,
		ScrollHeight: float64(e.doc.LineCount()) * lh,
		ClientHeight: e.clientHeight,
		LineHeight:   lh,
		LineCount:    e.doc.LineCount(),
		Overscan:     e.cfg.Editor.LineOverscan,
	}
}

func (e *Editor) clampScroll(top float64) float64 {
	limit := float64(e.doc.LineCount())*e.cfg.Editor.LineHeight - e.clientHeight
	return min(max(top, 0), max(limit, 0))
}

// onSelectionChange keeps the caret on screen.
func (e *Editor) onSelectionChange(ev eventbus.Event[eventbus.SelectionChange]) {
	if e.clientHeight <= 0 {
		return
	}
	line, _ := ev.Payload.Caret()
	top, changed := viewport.ScrollIntoView(line, e.Visible(), e.cfg.Editor.LineOverscan,
		e.cfg.Editor.LineHeight, e.clientHeight, e.scrollTop)
	if changed {
		e.scrollTop = e.clampScroll(top)
	}
}

// plainFormatter paints whole lines as plain text while the worker formats
// them.
type plainFormatter struct{ p tokenizer.Painter }

func (f plainFormatter) FormatLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return f.p.Blank(line)
	}
	return f.p.Paint(tokenizer.Plain, line)
}
