// Package broadcast holds the latest value of a piece of state and pushes it
// to subscribers after every mutation.
package broadcast

import "sync"

// Subject stores a current value and fans it out to subscribers.
type Subject[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[*Subscription[T]]struct{}
	closed bool
}

func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial, subs: make(map[*Subscription[T]]struct{})}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Next stores v and delivers it to every subscriber, even when it equals the
// previous value.
func (s *Subject[T]) Next(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	for sub := range s.subs {
		sub.offer(v)
	}
}

// Subscribe returns a subscription whose channel yields the current value
// right away. After a closed Subject the channel is already closed.
func (s *Subject[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{ch: make(chan T, 1), parent: s}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(sub.ch)
		sub.done = true
		return sub
	}
	sub.offer(s.value)
	s.subs[sub] = struct{}{}
	return sub
}

// Close cancels every subscription. Later Next calls are ignored.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		sub.shut()
	}
	s.subs = nil
}

func (s *Subject[T]) detach(sub *Subscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub]; !ok {
		return
	}
	delete(s.subs, sub)
	sub.shut()
}

// Subscription receives snapshots on C. A slow reader only ever sees the
// newest value; older undelivered ones are dropped.
type Subscription[T any] struct {
	ch     chan T
	parent *Subject[T]
	done   bool
}

func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Cancel detaches the subscription and closes its channel. Safe to call twice.
func (s *Subscription[T]) Cancel() {
	s.parent.detach(s)
}

// offer and shut run under the parent's lock.
func (s *Subscription[T]) offer(v T) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- v
}

func (s *Subscription[T]) shut() {
	if s.done {
		return
	}
	s.done = true
	close(s.ch)
}
