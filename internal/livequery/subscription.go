package livequery

import (
	"sync"
	"time"
)

// Snapshot is the full result set of a live query at one point in time. An Unchanged
// snapshot carries no documents: the query succeeded and matched the last delivered set.
type Snapshot[T any] struct {
	Docs      []T
	ReadAt    time.Time
	Unchanged bool
}

// Subscription is a non-restartable stream of snapshots. The channel is closed once the
// subscription ends, either because Stop was called or because its context was cancelled.
type Subscription[T any] struct {
	ch   <-chan Snapshot[T]
	stop func()
	once sync.Once
}

// NewSubscription wraps a snapshot channel owned by the caller. stop may be nil.
func NewSubscription[T any](ch <-chan Snapshot[T], stop func()) *Subscription[T] {
	return &Subscription[T]{ch: ch, stop: stop}
}

// C returns the snapshot stream.
func (s *Subscription[T]) C() <-chan Snapshot[T] {
	return s.ch
}

// Stop terminates the subscription. Only the first call has an effect.
func (s *Subscription[T]) Stop() {
	s.once.Do(func() {
		if s.stop != nil {
			s.stop()
		}
	})
}
