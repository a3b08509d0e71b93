package stream

import (
	"sync"
	"sync/atomic"
)

// Observable is a source of values delivered to callbacks.
type Observable[T any] interface {
	// Subscribe registers fn. The returned Subscription stops delivery.
	Subscribe(fn func(T)) Subscription
}

// Subscription cancels delivery to one subscriber.
type Subscription interface {
	// Dispose stops delivery synchronously and permanently. Idempotent.
	Dispose()
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func()

// Dispose calls f.
func (f SubscriptionFunc) Dispose() { f() }

// Func adapts a subscribe function to Observable.
type Func[T any] func(fn func(T)) Subscription

// Subscribe calls f(fn).
func (f Func[T]) Subscribe(fn func(T)) Subscription { return f(fn) }

type subscriber[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// hub is the subscriber registry shared by Subject and Publisher.
type hub[T any] struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber[T]
	order  []uint64
	nextID uint64
}

func (h *hub[T]) add(fn func(T)) (uint64, *subscriber[T]) {
	if h.subs == nil {
		h.subs = make(map[uint64]*subscriber[T])
	}
	h.nextID++
	id := h.nextID
	s := &subscriber[T]{fn: fn}
	s.active.Store(true)
	h.subs[id] = s
	h.order = append(h.order, id)
	return id, s
}

func (h *hub[T]) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.subs[id]
	if !ok {
		return
	}
	s.active.Store(false)
	delete(h.subs, id)
	for i, oid := range h.order {
		if oid == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// targets returns the subscribers in subscription order. The caller holds h.mu.
func (h *hub[T]) targets() []*subscriber[T] {
	out := make([]*subscriber[T], 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.subs[id])
	}
	return out
}

func deliver[T any](targets []*subscriber[T], v T) {
	for _, s := range targets {
		if s.active.Load() {
			s.fn(v)
		}
	}
}

// Subject retains the latest value and replays it on subscription.
type Subject[T any] struct {
	hub[T]
	value T
}

// NewSubject creates a Subject holding initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

// Value returns the latest published value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Publish stores v and delivers it to every current subscriber.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	s.value = v
	targets := s.targets()
	s.mu.Unlock()

	deliver(targets, v)
}

// Subscribe delivers the current value to fn immediately, then every value
// published afterwards.
func (s *Subject[T]) Subscribe(fn func(T)) Subscription {
	s.mu.Lock()
	id, sub := s.add(fn)
	v := s.value
	s.mu.Unlock()

	if sub.active.Load() {
		fn(v)
	}
	return SubscriptionFunc(func() { s.remove(id) })
}

// Publisher delivers values to current subscribers only.
type Publisher[T any] struct {
	hub[T]
}

// NewPublisher creates an empty Publisher.
func NewPublisher[T any]() *Publisher[T] {
	return &Publisher[T]{}
}

// Publish delivers v to every current subscriber.
func (p *Publisher[T]) Publish(v T) {
	p.mu.Lock()
	targets := p.targets()
	p.mu.Unlock()

	deliver(targets, v)
}

// Subscribe registers fn for values published from now on.
func (p *Publisher[T]) Subscribe(fn func(T)) Subscription {
	p.mu.Lock()
	id, _ := p.add(fn)
	p.mu.Unlock()

	return SubscriptionFunc(func() { p.remove(id) })
}
