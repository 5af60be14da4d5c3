package feed

import "sync"

// EventType identifies the kind of change a feed event describes.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is a single change-feed entry: one write to one record of one
// table. Events carry no row data; consumers re-read the store, which
// stays the single source of truth.
type Event struct {
	Table    string
	Type     EventType
	RecordID string
}

// Handler consumes feed events. Handlers for one subscription run on a
// dedicated goroutine, one event at a time, in publish order.
type Handler func(Event)

// Broker fans table change events out to subscribers. The store
// publishes an event after every committed write; each subscriber sees
// the events for its table in the order they were published.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
	closed bool
}

// NewBroker returns an empty broker ready for subscriptions.
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]*Subscription)}
}

// Subscription is a live handle on a table's change feed. The owning
// scope must call Stop exactly once when done; Stop is idempotent, so
// extra calls are harmless.
type Subscription struct {
	id     int
	table  string
	ch     chan Event
	done   chan struct{}
	broker *Broker
	stop   sync.Once
}

// Subscribe registers handler for all events on table and starts its
// delivery goroutine. The buffer absorbs short bursts; a persistently
// slow handler backpressures publishers rather than dropping events.
func (b *Broker) Subscribe(table string, buffer int, handler Handler) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		table:  table,
		ch:     make(chan Event, buffer),
		done:   make(chan struct{}),
		broker: b,
	}
	if b.closed {
		sub.stop.Do(func() { close(sub.done) })
		return sub
	}
	b.subs[sub.id] = sub

	go sub.deliver(handler)
	return sub
}

// Publish sends ev to every subscription on ev.Table. It blocks until
// each live subscriber has buffered the event, preserving per-table
// ordering across subscribers.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	targets := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.table == ev.Table {
			targets = append(targets, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.ch <- ev:
		case <-sub.done:
		}
	}
}

// Close stops every subscription. Further Publish calls are no-ops and
// further Subscribe calls return already-stopped handles.
func (b *Broker) Close() {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.closed = true
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Stop()
	}
}

// Stop detaches the subscription from the broker and ends its delivery
// goroutine. Events still sitting in the buffer are discarded.
func (s *Subscription) Stop() {
	s.stop.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s.id)
		s.broker.mu.Unlock()
		close(s.done)
	})
}

// deliver drains the subscription's channel into handler until Stop.
func (s *Subscription) deliver(handler Handler) {
	for {
		select {
		case ev := <-s.ch:
			handler(ev)
		case <-s.done:
			return
		}
	}
}
