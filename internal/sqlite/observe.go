package sqlite

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// observer re-queries its target after each commit. poll returns the
// callback to run, or nil when nothing observable changed.
type observer struct {
	id      uint64
	kind    string
	stopped atomic.Bool
	poll    func(q querier) (func(), error)
}

// token implements types.NotificationToken.
type token struct {
	backend *Backend
	obs     *observer
	once    sync.Once
}

// Stop unregisters the observer. Once it returns no new callback starts.
// Safe to call from inside a callback.
func (t *token) Stop() {
	t.once.Do(func() {
		t.obs.stopped.Store(true)
		b := t.backend
		b.notifyMu.Lock()
		delete(b.observers, t.obs.id)
		b.notifyMu.Unlock()
	})
}

// register runs initial and adds an observer atomically with respect to
// delivery, so no commit falls between the initial read and the first poll.
func (b *Backend) register(kind string, initial func(q querier) error, poll func(q querier) (func(), error)) (*token, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, fmt.Errorf("observe %s: %w", kind, types.ErrDatabase)
	}

	b.notifyMu.Lock()
	defer b.notifyMu.Unlock()

	if err := initial(b.db); err != nil {
		return nil, err
	}
	b.nextID++
	o := &observer{id: b.nextID, kind: kind, poll: poll}
	b.observers[o.id] = o
	return &token{backend: b, obs: o}, nil
}

// notify refreshes every observer after a commit. Delivery is serialized:
// a commit made while another goroutine (or a callback on this one) is
// delivering marks the backend dirty, and the active deliverer loops until
// no commit is pending.
func (b *Backend) notify() {
	b.notifyMu.Lock()
	b.dirty = true
	if b.delivering {
		b.notifyMu.Unlock()
		return
	}
	b.delivering = true
	defer func() {
		if r := recover(); r != nil {
			b.notifyMu.Lock()
			b.delivering = false
			b.dirty = false
			b.notifyMu.Unlock()
			panic(r)
		}
	}()

	for b.dirty {
		b.dirty = false
		targets := b.snapshotObservers()
		b.notifyMu.Unlock()
		for _, o := range targets {
			b.refresh(o)
		}
		b.notifyMu.Lock()
	}
	b.delivering = false
	b.notifyMu.Unlock()
}

// snapshotObservers returns the registered observers in registration order.
// Caller holds notifyMu.
func (b *Backend) snapshotObservers() []*observer {
	targets := make([]*observer, 0, len(b.observers))
	for _, o := range b.observers {
		targets = append(targets, o)
	}
	slices.SortFunc(targets, func(a, c *observer) int { return cmp.Compare(a.id, c.id) })
	return targets
}

func (b *Backend) refresh(o *observer) {
	if o.stopped.Load() {
		return
	}
	var emit func()
	err := b.read(func(q querier) error {
		var err error
		emit, err = o.poll(q)
		return err
	})
	if err != nil {
		b.logger.Warn("refreshing observer", zap.String("kind", o.kind), zap.Error(err))
		return
	}
	if emit != nil && !o.stopped.Load() {
		emit()
	}
}
