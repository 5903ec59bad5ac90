package eventbus

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Bus groups one typed topic per event name. Dispatch is synchronous and
// happens on the publishing goroutine; the bus is not safe for concurrent use.
type Bus struct {
	LineTextChange  *Topic[LineTextChange]
	CursorMove      *Topic[CursorMove]
	LineBreakInsert *Topic[LineBreakInsert]
	LineBreakDelete *Topic[LineBreakDelete]
	SelectionChange *Topic[SelectionChange]

	depth    int
	deferred []func()
	flushing bool
}

// New creates a bus with all topics ready.
func New() *Bus {
	b := &Bus{}
	b.LineTextChange = newTopic[LineTextChange](b, LineTextChangeEvent)
	b.CursorMove = newTopic[CursorMove](b, CursorMoveEvent)
	b.LineBreakInsert = newTopic[LineBreakInsert](b, LineBreakInsertEvent)
	b.LineBreakDelete = newTopic[LineBreakDelete](b, LineBreakDeleteEvent)
	b.SelectionChange = newTopic[SelectionChange](b, SelectionChangeEvent)
	return b
}

// Defer schedules fn to run once the outermost publish in progress has
// returned. Called outside of any dispatch, fn runs immediately.
func (b *Bus) Defer(fn func()) {
	b.deferred = append(b.deferred, fn)
	if b.depth == 0 {
		b.flush()
	}
}

// Pending returns the number of deferred callbacks not yet run.
func (b *Bus) Pending() int { return len(b.deferred) }

func (b *Bus) enter() { b.depth++ }

func (b *Bus) leave() {
	b.depth--
	if b.depth == 0 {
		b.flush()
	}
}

// flush runs deferred callbacks in FIFO order. Callbacks that publish or
// defer again are drained in the same flush.
func (b *Bus) flush() {
	if b.flushing {
		return
	}
	b.flushing = true
	defer func() { b.flushing = false }()

	for len(b.deferred) > 0 {
		fn := b.deferred[0]
		b.deferred = b.deferred[1:]
		fn()
	}
}

// ---------------------------------------------------------------------------
// Topic
// ---------------------------------------------------------------------------

type subscription[T any] struct {
	id int
	fn func(Event[T])
}

// Topic is the consumer set of one event name.
type Topic[T any] struct {
	bus    *Bus
	typ    EventType
	subs   []subscription[T]
	nextID int
}

func newTopic[T any](b *Bus, typ EventType) *Topic[T] {
	return &Topic[T]{bus: b, typ: typ}
}

// Subscribe registers fn and returns a function that removes it.
func (t *Topic[T]) Subscribe(fn func(Event[T])) (unsubscribe func()) {
	t.nextID++
	id := t.nextID
	t.subs = append(t.subs, subscription[T]{id: id, fn: fn})
	return func() {
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers payload to every subscriber in subscription order before
// returning.
func (t *Topic[T]) Publish(payload T) {
	ev := Event[T]{Type: t.typ, Payload: payload, Timestamp: time.Now()}

	t.bus.enter()
	defer t.bus.leave()

	subs := t.subs
	if len(subs) == 0 {
		log.Debug().Str("event", string(t.typ)).Msg("eventbus: no subscribers")
		return
	}
	for _, s := range subs {
		s.fn(ev)
	}
}

// SubscriberCount returns the number of active subscribers.
func (t *Topic[T]) SubscriberCount() int { return len(t.subs) }
