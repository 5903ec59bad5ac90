package worker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/xonecas/aura/internal/tokenizer"
	"github.com/xonecas/aura/internal/viewport"
)

type upper struct{}

func (upper) FormatLine(line string) string { return strings.ToUpper(line) }

func receive(t *testing.T, w *Worker) Response {
	t.Helper()
	select {
	case r := <-w.Responses():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for response")
		return Response{}
	}
}

func TestWorker_FormatsOnlyRequestedRange(t *testing.T) {
	w := New(upper{}, 4)
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(ctx) })

	lines := []string{"a", "b", "c", "d"}
	var got Response
	seq, err := w.Post(lines, viewport.Range{First: 2, Last: 4}, func(r Response) { got = r })
	require.NoError(t, err)
	require.Equal(t, uint64(1), seq)

	// Mutating the caller's slice must not affect the request.
	lines[2] = "changed"

	resp := receive(t, w)
	require.True(t, w.Deliver(resp))
	require.Equal(t, []string{"c", "d", ""}, got.Texts)
	require.Equal(t, []string{"C", "D", ""}, got.Markup)
	require.Equal(t, tokenizer.FormatRange(upper{}, []string{"a", "b", "c", "d"}, got.Range), got.Markup)
	require.Equal(t, viewport.Range{First: 2, Last: 4}, got.Range)

	cancel()
	require.NoError(t, g.Wait())
}

func TestWorker_DeliverDropsStaleResponses(t *testing.T) {
	w := New(upper{}, 4)
	var applied []uint64
	cb := func(r Response) { applied = append(applied, r.Seq) }

	older := Response{Seq: 1, cb: cb}
	newer := Response{Seq: 2, cb: cb}

	// Out of order arrival: the newer response wins, the older is dropped.
	require.True(t, w.Deliver(newer))
	require.False(t, w.Deliver(older))
	require.False(t, w.Deliver(newer))

	require.Equal(t, []uint64{2}, applied)
	require.Equal(t, uint64(2), w.Dropped())
}

func TestWorker_PostNeverBlocks(t *testing.T) {
	w := New(upper{}, 1)

	_, err := w.Post([]string{"x"}, viewport.Range{First: 0, Last: 0}, nil)
	require.NoError(t, err)

	seq, err := w.Post([]string{"x"}, viewport.Range{First: 0, Last: 0}, nil)
	require.ErrorIs(t, err, ErrQueueFull)
	require.Equal(t, uint64(2), seq)
}

func TestWorker_WithTokenizer(t *testing.T) {
	tk := tokenizer.New(tokenizer.HTMLPainter{Mode: "js"}, tokenizer.DefaultCacheOptions())
	w := New(tk, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	_, err := w.Post([]string{"return true"}, viewport.Range{First: 0, Last: 0}, nil)
	require.NoError(t, err)

	resp := receive(t, w)
	require.Equal(t,
		`<span class="aura-token js keyword">return</span> <span class="aura-token js boolean">true</span>`,
		resp.Markup[0])
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	w := New(upper{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
