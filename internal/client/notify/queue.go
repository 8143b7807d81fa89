// Package notify implements the transient notification (toast) queue shown
// to the user after operations succeed or fail.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/logging"
	"github.com/jonboulle/clockwork"
)

// DefaultTTL is how long a notification stays visible unless dismissed.
const DefaultTTL = 4 * time.Second

type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
)

// Notification is one visible message. IDs increase strictly for the
// lifetime of a Queue.
type Notification struct {
	ID   int
	Type Type
	Text string
}

// Queue holds the visible notifications in insertion order and publishes
// the whole sequence to subscribers on every change. It is safe for
// concurrent use.
type Queue struct {
	clock  clockwork.Clock
	ttl    time.Duration
	logger logging.Logger

	mu     sync.Mutex
	nextID int
	items  []Notification
	timers map[int]clockwork.Timer
	subs   map[int]chan []Notification
	subID  int
	closed bool
}

type Option func(*Queue)

// WithClock sets the clock that drives auto-dismissal.
func WithClock(c clockwork.Clock) Option {
	return func(q *Queue) { q.clock = c }
}

// WithTTL sets the auto-dismiss delay. Non-positive values keep DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.ttl = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		clock:  clockwork.NewRealClock(),
		ttl:    DefaultTTL,
		logger: logging.Nop(),
		timers: make(map[int]clockwork.Timer),
		subs:   make(map[int]chan []Notification),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends a notification, schedules its removal after the TTL and
// returns its id without waiting. A closed queue ignores the call and
// returns 0.
func (q *Queue) Push(typ Type, text string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0
	}

	q.nextID++
	id := q.nextID
	q.items = append(q.items, Notification{ID: id, Type: typ, Text: text})
	q.timers[id] = q.clock.AfterFunc(q.ttl, func() { q.expire(id) })

	q.logger.Debug(context.Background(), "notification pushed", "id", id, "type", string(typ))
	q.publishLocked()
	return id
}

func (q *Queue) Success(text string) int { return q.Push(TypeSuccess, text) }
func (q *Queue) Error(text string) int   { return q.Push(TypeError, text) }
func (q *Queue) Info(text string) int    { return q.Push(TypeInfo, text) }

// Dismiss removes the notification with the given id. Unknown or already
// removed ids are ignored.
func (q *Queue) Dismiss(id int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if t, ok := q.timers[id]; ok {
		t.Stop()
	}
	q.removeLocked(id)
}

func (q *Queue) expire(id int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(id)
}

func (q *Queue) removeLocked(id int) {
	delete(q.timers, id)
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			q.publishLocked()
			return
		}
	}
}

// Snapshot returns a copy of the visible notifications, oldest first.
func (q *Queue) Snapshot() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

func (q *Queue) snapshotLocked() []Notification {
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Subscribe returns a channel that immediately holds the current snapshot
// and then receives a new one after every change. A slow reader only ever
// sees the latest snapshot. The returned func unsubscribes and closes the
// channel; it is safe to call more than once.
func (q *Queue) Subscribe() (<-chan []Notification, func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch := make(chan []Notification, 1)
	if q.closed {
		close(ch)
		return ch, func() {}
	}

	q.subID++
	sid := q.subID
	q.subs[sid] = ch
	ch <- q.snapshotLocked()

	return ch, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if c, ok := q.subs[sid]; ok {
			delete(q.subs, sid)
			close(c)
		}
	}
}

func (q *Queue) publishLocked() {
	for _, ch := range q.subs {
		// Drop an unread older snapshot; q.mu makes this the only sender.
		select {
		case <-ch:
		default:
		}
		ch <- q.snapshotLocked()
	}
}

// Close stops pending timers and closes every subscriber channel.
// Notifications still visible are kept in Snapshot.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	for sid, ch := range q.subs {
		delete(q.subs, sid)
		close(ch)
	}
}
