// Package worker formats line ranges off the UI goroutine.
//
// Requests carry a sequence number. Responses come back on a channel and are
// applied with Deliver on the caller's goroutine, which drops any response
// older than the newest one already delivered.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/aura/internal/tokenizer"
	"github.com/xonecas/aura/internal/viewport"
)

// ErrQueueFull is returned by Post when the request queue has no room.
var ErrQueueFull = errors.New("worker: queue full")

// Request is one range of lines to format.
type Request struct {
	Seq   uint64
	Range viewport.Range
	Lines []string
}

// Response holds the formatted markup for a request.
type Response struct {
	Seq    uint64
	Range  viewport.Range
	Texts  []string
	Markup []string

	cb func(Response)
}

// Worker owns a formatter and a bounded request queue.
type Worker struct {
	formatter tokenizer.Formatter
	requests  chan job
	responses chan Response

	mu        sync.Mutex
	nextSeq   uint64
	delivered uint64
	dropped   uint64
}

type job struct {
	req Request
	cb  func(Response)
}

// New creates a worker with room for queue pending requests.
func New(f tokenizer.Formatter, queue int) *Worker {
	if queue < 1 {
		queue = 1
	}
	return &Worker{
		formatter: f,
		requests:  make(chan job, queue),
		responses: make(chan Response, queue),
	}
}

// Post queues the visible slice of lines for formatting. Only the lines in r
// are copied. cb runs from Deliver. It never blocks.
func (w *Worker) Post(lines []string, r viewport.Range, cb func(Response)) (uint64, error) {
	w.mu.Lock()
	w.nextSeq++
	seq := w.nextSeq
	w.mu.Unlock()

	texts := tokenizer.VisibleLines(lines, r)

	select {
	case w.requests <- job{req: Request{Seq: seq, Range: r, Lines: texts}, cb: cb}:
		return seq, nil
	default:
		log.Debug().Uint64("seq", seq).Msg("worker: queue full, dropping request")
		return seq, ErrQueueFull
	}
}

// Responses is where formatted ranges arrive.
func (w *Worker) Responses() <-chan Response { return w.responses }

// Run formats requests until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Debug().Msg("worker: started")
	defer log.Debug().Msg("worker: stopped")
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-w.requests:
			resp := Response{
				Seq:    j.req.Seq,
				Range:  j.req.Range,
				Texts:  j.req.Lines,
				Markup: tokenizer.FormatLines(w.formatter, j.req.Lines),
				cb:     j.cb,
			}
			select {
			case w.responses <- resp:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Deliver runs the response callback unless a newer response was already
// delivered. It reports whether the callback ran.
func (w *Worker) Deliver(resp Response) bool {
	w.mu.Lock()
	if resp.Seq <= w.delivered {
		w.dropped++
		w.mu.Unlock()
		log.Debug().Uint64("seq", resp.Seq).Msg("worker: dropping stale response")
		return false
	}
	w.delivered = resp.Seq
	w.mu.Unlock()

	if resp.cb != nil {
		resp.cb(resp)
	}
	return true
}

// Dropped returns the number of stale responses discarded by Deliver.
func (w *Worker) Dropped() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}
