package store

import "sync"

// Op identifies the kind of row change carried by a ChangeEvent.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent describes a single committed row change.
type ChangeEvent struct {
	Table string
	Op    Op
	ID    string
}

// Feed is an in-process change feed. Store mutations publish events;
// subscribers receive the events for the tables they asked for.
// Delivery is best-effort: a subscriber that falls behind loses events
// rather than blocking writers.
type Feed struct {
	mu   sync.Mutex
	subs map[int]*subscription
	next int
}

type subscription struct {
	tables map[string]bool // empty = all tables
	ch     chan ChangeEvent
}

// NewFeed creates an empty change feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]*subscription)}
}

// Subscribe registers interest in the given tables (all tables when
// none are named) and returns the event channel plus a cancel function.
// Cancel closes the channel.
func (f *Feed) Subscribe(tables ...string) (<-chan ChangeEvent, func()) {
	sub := &subscription{
		tables: make(map[string]bool, len(tables)),
		ch:     make(chan ChangeEvent, 64),
	}
	for _, t := range tables {
		sub.tables[t] = true
	}

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = sub
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if s, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(s.ch)
		}
		f.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers an event to every matching subscriber without
// blocking. Events to full channels are dropped.
func (f *Feed) Publish(ev ChangeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if len(sub.tables) > 0 && !sub.tables[ev.Table] {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			// Drop if the subscriber's channel is full.
		}
	}
}
