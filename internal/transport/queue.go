package transport

import "sync"

const (
	// maxPending bounds events held for a reader that is not draining.
	maxPending = 1024
	// maxPendingTicks bounds queued time updates; only the latest matter.
	maxPendingTicks = 8
)

// eventQueue delivers events in emission order without ever blocking the
// sender. Commands run under the player's lock, so a blocking send would
// wait on the very goroutine that drains Events.
type eventQueue struct {
	mu      sync.Mutex
	pending []Event
	ticks   int
	dropped int

	wake chan struct{}
	out  chan Event
	done chan struct{}
	once sync.Once
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		wake: make(chan struct{}, 1),
		out:  make(chan Event),
		done: make(chan struct{}),
	}
	go q.pump()
	return q
}

// push queues ev. Time updates past maxPendingTicks and anything past
// maxPending are dropped.
func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	switch {
	case len(q.pending) >= maxPending:
		q.dropped++
		q.mu.Unlock()
		return
	case ev.Kind == EventTimeUpdate:
		if q.ticks >= maxPendingTicks {
			q.mu.Unlock()
			return
		}
		q.ticks++
	}
	q.pending = append(q.pending, ev)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *eventQueue) pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Event{}, false
	}
	ev := q.pending[0]
	q.pending[0] = Event{}
	q.pending = q.pending[1:]
	if ev.Kind == EventTimeUpdate {
		q.ticks--
	}
	return ev, true
}

func (q *eventQueue) pump() {
	for {
		ev, ok := q.pop()
		if !ok {
			select {
			case <-q.wake:
				continue
			case <-q.done:
				return
			}
		}
		select {
		case q.out <- ev:
		case <-q.done:
			return
		}
	}
}

func (q *eventQueue) events() <-chan Event { return q.out }

// close stops delivery. Pending events are discarded.
func (q *eventQueue) close() {
	q.once.Do(func() { close(q.done) })
}
