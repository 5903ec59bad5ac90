package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/xonecas/aura/internal/document"
	"github.com/xonecas/aura/internal/eventbus"
	"github.com/xonecas/aura/internal/tokenizer"
	"github.com/xonecas/aura/internal/viewport"
)

// upper is a formatter whose output is easy to tell apart from the input.
type upper struct{ calls int }

func (u *upper) FormatLine(line string) string {
	u.calls++
	return strings.ToUpper(line)
}

func numbered(n int) *document.Document {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return document.New(strings.Join(lines, "\n"))
}

func requireCovers(t require.TestingT, r *Renderer, vr viewport.Range, lineHeight float64) {
	nodes := r.Nodes()
	require.Len(t, nodes, vr.Len())
	for i, n := range nodes {
		require.Equal(t, vr.First+i, n.Line)
		require.Equal(t, float64(n.Line)*lineHeight, n.Top)
	}
}

func TestRender_FirstPassRebuilds(t *testing.T) {
	doc := numbered(3)
	r := New(doc, &upper{}, 20)

	s := r.Render(viewport.Range{First: 0, Last: 3}, 0)

	require.Equal(t, StrategyRebuild, s)
	requireCovers(t, r, viewport.Range{First: 0, Last: 3}, 20)
	nodes := r.Nodes()
	require.Equal(t, "LINE 0", nodes[0].Markup)
	// Index past the document renders blank.
	require.Equal(t, "", nodes[3].Text)
}

func TestRender_PatchOnlyChangedLines(t *testing.T) {
	doc := numbered(10)
	f := &upper{}
	r := New(doc, f, 20)
	vr := viewport.Range{First: 0, Last: 9}
	r.Render(vr, 0)
	before := f.calls

	doc.UpdateLine(4, "changed")
	s := r.Render(vr, 0)

	require.Equal(t, StrategyPatch, s)
	require.Equal(t, before+1, f.calls)
	require.Equal(t, 1, r.Stats().Patched)
	require.Equal(t, "CHANGED", r.Nodes()[4].Markup)
	requireCovers(t, r, vr, 20)
}

func TestRender_ForwardScrollReusesNodes(t *testing.T) {
	doc := numbered(100)
	r := New(doc, &upper{}, 20)
	m := viewport.Metrics{
		ScrollHeight: 2000, ClientHeight: 100, LineHeight: 20, LineCount: 100, Overscan: 2,
	}

	vr := viewport.Calculate(m)
	r.Render(vr, 0)
	created := r.Stats().Created

	m.ScrollTop = 85
	next := viewport.Calculate(m)
	require.Equal(t, viewport.Range{First: 2, Last: 11}, next)
	s := r.Render(next, m.ScrollTop)

	require.Equal(t, StrategyScroll, s)
	requireCovers(t, r, next, 20)
	require.Equal(t, next.Last-vr.Last, r.Stats().Created-created)
	require.Equal(t, next.First-vr.First, r.Stats().Removed)
}

func TestRender_BackwardScrollRebuilds(t *testing.T) {
	doc := numbered(100)
	r := New(doc, &upper{}, 20)

	r.Render(viewport.Range{First: 20, Last: 30}, 500)
	s := r.Render(viewport.Range{First: 10, Last: 20}, 300)

	require.Equal(t, StrategyRebuild, s)
	requireCovers(t, r, viewport.Range{First: 10, Last: 20}, 20)
}

func TestRender_InvalidateForcesRebuild(t *testing.T) {
	doc := numbered(5)
	r := New(doc, &upper{}, 20)
	vr := viewport.Range{First: 0, Last: 5}
	r.Render(vr, 0)

	doc.InsertLineBreak(2, 0)
	r.Invalidate()
	require.Equal(t, StrategyRebuild, r.Render(vr, 0))
	require.Equal(t, "", r.Nodes()[2].Text)

	r.SetLineHeight(10)
	require.Equal(t, StrategyRebuild, r.Render(vr, 0))
	requireCovers(t, r, vr, 10)

	stats := r.Stats()
	require.Equal(t, 3, stats.RebuildPasses)
}

func TestRender_MonotonicScrollCreatesOnlyRevealedLines(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lineCount := rapid.IntRange(1, 400).Draw(t, "lineCount")
		lineHeight := float64(rapid.IntRange(1, 30).Draw(t, "lineHeight"))
		clientHeight := float64(rapid.IntRange(1, 600).Draw(t, "clientHeight"))
		overscan := rapid.IntRange(0, 6).Draw(t, "overscan")
		steps := rapid.SliceOfN(rapid.IntRange(1, 400), 1, 30).Draw(t, "steps")

		r := New(numbered(lineCount), &upper{}, lineHeight)
		m := viewport.Metrics{
			ScrollHeight: float64(lineCount) * lineHeight,
			ClientHeight: clientHeight,
			LineHeight:   lineHeight,
			LineCount:    lineCount,
			Overscan:     overscan,
		}
		maxTop := max(0, m.ScrollHeight-clientHeight)

		prev := viewport.Calculate(m)
		r.Render(prev, 0)
		for _, step := range steps {
			if m.ScrollTop+float64(step) > maxTop {
				break
			}
			m.ScrollTop += float64(step)
			next := viewport.Calculate(m)

			before := r.Stats()
			s := r.Render(next, m.ScrollTop)
			after := r.Stats()

			if s == StrategyRebuild {
				t.Fatalf("rebuild during forward scroll from %+v to %+v", prev, next)
			}
			revealed := next.Last - max(prev.Last, next.First-1)
			if got := after.Created - before.Created; got != revealed {
				t.Fatalf("created %d nodes, revealed %d lines (%+v -> %+v)", got, revealed, prev, next)
			}
			requireCovers(t, r, next, lineHeight)
			prev = next
		}
	})
}

func TestApplyMarkup_SkipsEditedLines(t *testing.T) {
	doc := numbered(4)
	r := New(doc, &upper{}, 1)
	r.Render(viewport.Range{First: 0, Last: 3}, 0)

	texts := []string{"line 1", "line 2"}
	doc.UpdateLine(2, "edited")
	r.Render(viewport.Range{First: 0, Last: 3}, 0)

	n := r.ApplyMarkup(1, texts, []string{"<b>1</b>", "<b>2</b>"})

	require.Equal(t, 1, n)
	nodes := r.Nodes()
	require.Equal(t, "<b>1</b>", nodes[1].Markup)
	require.Equal(t, "EDITED", nodes[2].Markup)
}

func TestRender_WithTokenizer(t *testing.T) {
	doc := document.New("const a = 1;\n\n'str")
	tk := tokenizer.New(tokenizer.HTMLPainter{Mode: "js"}, tokenizer.DefaultCacheOptions())
	r := New(doc, tk, 24)

	r.Render(viewport.Range{First: 0, Last: 2}, 0)

	nodes := r.Nodes()
	require.Contains(t, nodes[0].Markup, `<span class="aura-token js keyword">const</span>`)
	require.Equal(t, "&nbsp;", nodes[1].Markup)
	require.Equal(t, `<span class="aura-token js string">&#39;str</span>`, nodes[2].Markup)
}

func TestOverlay_Collapsed(t *testing.T) {
	r := New(numbered(50), &upper{}, 20)
	vr := viewport.Range{First: 8, Last: 17}

	o := r.Overlay(eventbus.SelectionChange{CursorLine: 10, CursorCol: 3, EndLine: 10, EndCol: 3}, vr, true, 8)
	require.True(t, o.CaretVisible)
	require.Equal(t, Caret{Line: 10, Col: 3, Top: 200, Left: 24}, o.Caret)
	require.True(t, o.ActiveLineVisible)
	require.Equal(t, 200.0, o.ActiveLineTop)
	require.Empty(t, o.Spans)

	o = r.Overlay(eventbus.SelectionChange{CursorLine: 10, CursorCol: 3}, vr, false, 8)
	require.False(t, o.CaretVisible)

	o = r.Overlay(eventbus.SelectionChange{CursorLine: 30}, vr, true, 8)
	require.False(t, o.CaretVisible)
	require.False(t, o.ActiveLineVisible)
}

func TestOverlay_MultiLineSelection(t *testing.T) {
	doc := document.New("alpha\nbeta\ngamma\ndelta")
	r := New(doc, &upper{}, 10)
	vr := viewport.Range{First: 0, Last: 3}

	// Floating end before the anchor: spans come out in document order.
	sel := eventbus.SelectionChange{CursorLine: 2, CursorCol: 3, Active: true, EndLine: 0, EndCol: 2}
	o := r.Overlay(sel, vr, true, 5)

	require.False(t, o.ActiveLineVisible)
	require.True(t, o.CaretVisible)
	require.Equal(t, Caret{Line: 0, Col: 2, Top: 0, Left: 10}, o.Caret)
	require.Equal(t, []Span{
		{Line: 0, StartCol: 2, EndCol: 5, Top: 0, Left: 10, Text: "pha", Newline: true},
		{Line: 1, StartCol: 0, EndCol: 4, Top: 10, Left: 0, Text: "beta", Newline: true},
		{Line: 2, StartCol: 0, EndCol: 3, Top: 20, Left: 0, Text: "gam"},
	}, o.Spans)

	// Only the visible part of the selection is drawn.
	o = r.Overlay(sel, viewport.Range{First: 2, Last: 3}, true, 5)
	require.Len(t, o.Spans, 1)
	require.False(t, o.CaretVisible)

	o = r.Overlay(sel, viewport.Range{First: 3, Last: 3}, true, 5)
	require.Empty(t, o.Spans)
}

func TestStrategy_String(t *testing.T) {
	require.Equal(t, "scroll", StrategyScroll.String())
	require.Equal(t, "unknown", Strategy(7).String())
}
