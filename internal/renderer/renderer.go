// Package renderer keeps a windowed set of view nodes in step with the
// visible line range.
//
// Each pass compares the new range and scroll offset with the previous pass
// and picks the cheapest strategy that keeps the node set exactly covering
// [First, Last]: patch text in place, extend the window on a forward scroll,
// or rebuild from scratch.
package renderer

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/aura/internal/tokenizer"
	"github.com/xonecas/aura/internal/viewport"
)

// Strategy is the reconciliation chosen for a render pass.
type Strategy int

const (
	StrategyPatch Strategy = iota
	StrategyScroll
	StrategyRebuild
)

func (s Strategy) String() string {
	switch s {
	case StrategyPatch:
		return "patch"
	case StrategyScroll:
		return "scroll"
	case StrategyRebuild:
		return "rebuild"
	default:
		return "unknown"
	}
}

// Source is the read side of a document.
type Source interface {
	Line(i int) string
	LineCount() int
}

// ViewNode is one materialized line.
type ViewNode struct {
	Line   int
	Top    float64
	Text   string
	Markup string
}

// Stats counts node operations and passes since creation.
type Stats struct {
	Created int
	Removed int
	Patched int

	PatchPasses   int
	ScrollPasses  int
	RebuildPasses int
}

// pass is what the renderer remembers about the previous render.
type pass struct {
	first     int
	last      int
	scrollTop float64
	valid     bool
}

// Renderer reconciles view nodes against the visible range.
type Renderer struct {
	src        Source
	formatter  tokenizer.Formatter
	lineHeight float64

	nodes []ViewNode
	prev  pass
	stats Stats
}

// New creates a renderer. The first Render always rebuilds.
func New(src Source, f tokenizer.Formatter, lineHeight float64) *Renderer {
	return &Renderer{src: src, formatter: f, lineHeight: lineHeight}
}

// SetFormatter swaps the line formatter and forces a rebuild.
func (r *Renderer) SetFormatter(f tokenizer.Formatter) {
	r.formatter = f
	r.Invalidate()
}

// SetLineHeight changes node offsets and forces a rebuild.
func (r *Renderer) SetLineHeight(h float64) {
	if h == r.lineHeight {
		return
	}
	r.lineHeight = h
	r.Invalidate()
}

// Invalidate makes the next pass a full rebuild. Call it on resize and on
// edits that change the number of lines.
func (r *Renderer) Invalidate() { r.prev.valid = false }

// Nodes returns a copy of the current view nodes in line order.
func (r *Renderer) Nodes() []ViewNode { return slices.Clone(r.nodes) }

// Stats returns the running counters.
func (r *Renderer) Stats() Stats { return r.stats }

// Render reconciles the node set with vr and records the pass.
func (r *Renderer) Render(vr viewport.Range, scrollTop float64) Strategy {
	var s Strategy
	switch {
	case !r.prev.valid:
		s = StrategyRebuild
	case vr.First == r.prev.first && vr.Last == r.prev.last:
		s = StrategyPatch
	case scrollTop > r.prev.scrollTop && vr.First >= r.prev.first && vr.Last >= r.prev.last:
		s = StrategyScroll
	default:
		s = StrategyRebuild
	}

	switch s {
	case StrategyPatch:
		r.patch()
		r.stats.PatchPasses++
	case StrategyScroll:
		r.scroll(vr)
		r.stats.ScrollPasses++
	case StrategyRebuild:
		r.rebuild(vr)
		r.stats.RebuildPasses++
	}

	log.Debug().
		Stringer("strategy", s).
		Int("first", vr.First).
		Int("last", vr.Last).
		Float64("scroll_top", scrollTop).
		Msg("renderer: pass")

	r.prev = pass{first: vr.First, last: vr.Last, scrollTop: scrollTop, valid: true}
	return s
}

// ApplyMarkup replaces the markup of nodes in [first, first+len(markup)) whose
// text still equals the text the markup was produced from. Nodes edited since
// are left alone.
func (r *Renderer) ApplyMarkup(first int, texts, markup []string) int {
	applied := 0
	for i := range r.nodes {
		n := &r.nodes[i]
		k := n.Line - first
		if k < 0 || k >= len(markup) || k >= len(texts) {
			continue
		}
		if n.Text == texts[k] && n.Markup != markup[k] {
			n.Markup = markup[k]
			applied++
		}
	}
	return applied
}

func (r *Renderer) text(line int) string {
	if line < 0 || line >= r.src.LineCount() {
		return ""
	}
	return r.src.Line(line)
}

func (r *Renderer) node(line int) ViewNode {
	text := r.text(line)
	r.stats.Created++
	return ViewNode{
		Line:   line,
		Top:    float64(line) * r.lineHeight,
		Text:   text,
		Markup: r.formatter.FormatLine(text),
	}
}

func (r *Renderer) refresh(n *ViewNode) {
	text := r.text(n.Line)
	if n.Text == text {
		return
	}
	n.Text = text
	n.Markup = r.formatter.FormatLine(text)
	r.stats.Patched++
}

func (r *Renderer) patch() {
	for i := range r.nodes {
		r.refresh(&r.nodes[i])
	}
}

// scroll drops nodes that moved above the first visible offset, reuses the
// rest in place and appends nodes for newly revealed lines.
func (r *Renderer) scroll(vr viewport.Range) {
	firstTop := float64(vr.First) * r.lineHeight
	drop := 0
	for drop < len(r.nodes) && r.nodes[drop].Top != firstTop {
		drop++
	}
	if drop > 0 {
		r.stats.Removed += drop
		r.nodes = append(r.nodes[:0], r.nodes[drop:]...)
	}

	for line := vr.First; line <= vr.Last; line++ {
		i := line - vr.First
		if i < len(r.nodes) {
			r.refresh(&r.nodes[i])
			continue
		}
		r.nodes = append(r.nodes, r.node(line))
	}
}

func (r *Renderer) rebuild(vr viewport.Range) {
	r.stats.Removed += len(r.nodes)
	r.nodes = make([]ViewNode, 0, vr.Len())
	for line := vr.First; line <= vr.Last; line++ {
		r.nodes = append(r.nodes, r.node(line))
	}
}
