// Package notify delivers preference changes to observers.
//
// Observers subscribe to every change or to the sections sharing a name
// prefix, such as all shortcut sections of one preference generation.
// Delivery is synchronous and follows subscription order.
package notify

import (
	"strings"
	"sync"
)

// ChangeType is the kind of preference change.
type ChangeType int

const (
	// ChangeSet is a value written to the user layer.
	ChangeSet ChangeType = iota
	// ChangeDelete is a value or a whole section removed from the user layer.
	ChangeDelete
	// ChangeReload is a reload of the preference files.
	ChangeReload
)

func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change is one preference change. Section and Key are empty for reloads;
// Key is empty when a whole section is deleted.
type Change struct {
	Type     ChangeType
	Section  string
	Key      string
	OldValue string
	NewValue string
}

// Observer receives changes.
type Observer func(Change)

type subscriber struct {
	id     uint64
	prefix string
	all    bool
	fn     Observer
}

// matches reports whether the subscriber wants c. Reloads go to everyone.
func (s subscriber) matches(c Change) bool {
	return s.all || c.Type == ChangeReload || strings.HasPrefix(c.Section, s.prefix)
}

// Subscription is returned by Subscribe; Unsubscribe ends it.
type Subscription struct {
	id uint64
	n  *Notifier
}

// Unsubscribe stops delivery. It may be called more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.n != nil {
		s.n.remove(s.id)
	}
}

// Notifier fans changes out to observers. It is safe for concurrent use;
// observers run on the notifying goroutine, outside the lock.
type Notifier struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID uint64
	closed bool
}

// New returns a Notifier without observers.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(fn Observer) *Subscription {
	return n.add(subscriber{all: true, fn: fn})
}

// SubscribeSection registers an observer for the sections whose name
// starts with prefix, and for reloads.
func (n *Notifier) SubscribeSection(prefix string, fn Observer) *Subscription {
	return n.add(subscriber{prefix: prefix, fn: fn})
}

func (n *Notifier) add(s subscriber) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()
	s.id = n.nextID
	n.nextID++
	n.subs = append(n.subs, s)
	return &Subscription{id: s.id, n: n}
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.subs {
		if s.id == id {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			return
		}
	}
}

// Notify delivers c to the matching observers. Nothing is delivered after
// Close.
func (n *Notifier) Notify(c Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var targets []Observer
	for _, s := range n.subs {
		if s.matches(c) {
			targets = append(targets, s.fn)
		}
	}
	n.mu.RUnlock()

	for _, fn := range targets {
		fn(c)
	}
}

// NotifySet reports a written value.
func (n *Notifier) NotifySet(section, key, oldValue, newValue string) {
	n.Notify(Change{Type: ChangeSet, Section: section, Key: key, OldValue: oldValue, NewValue: newValue})
}

// NotifyDelete reports a removed value, or a removed section if key is "".
func (n *Notifier) NotifyDelete(section, key, oldValue string) {
	n.Notify(Change{Type: ChangeDelete, Section: section, Key: key, OldValue: oldValue})
}

// NotifyReload reports a reload of the preference files.
func (n *Notifier) NotifyReload() {
	n.Notify(Change{Type: ChangeReload})
}

// Close drops every observer. It is safe to call Close more than once.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.subs = nil
}

// Batch holds changes back until Commit, so observers see a group of
// writes only once all of them succeeded.
type Batch struct {
	n       *Notifier
	changes []Change
}

// NewBatch starts a batch. A Batch is not safe for concurrent use.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{n: n}
}

// Add queues a change.
func (b *Batch) Add(c Change) {
	b.changes = append(b.changes, c)
}

// Len returns the number of queued changes.
func (b *Batch) Len() int {
	return len(b.changes)
}

// Commit delivers the queued changes in order.
func (b *Batch) Commit() {
	changes := b.changes
	b.changes = nil
	for _, c := range changes {
		b.n.Notify(c)
	}
}

// Discard drops the queued changes.
func (b *Batch) Discard() {
	b.changes = nil
}
