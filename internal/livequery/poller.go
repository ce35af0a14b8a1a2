package livequery

import (
	"context"
	"log"
	"time"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
)

// QueryFunc runs a filtered, ordered query and returns the full result set.
type QueryFunc[T any] func(ctx context.Context) ([]T, error)

type poller[T any] struct {
	name      string
	interval  time.Duration
	query     QueryFunc[T]
	out       chan Snapshot[T]
	last      uint64
	delivered bool
}

// Poll turns query into a live subscription. The query runs immediately and then every
// interval. A full snapshot is delivered whenever the result set differs from the last one
// delivered, otherwise an Unchanged snapshot marks the successful read. A failed query
// delivers nothing; it is logged and retried on the next tick.
func Poll[T any](ctx context.Context, name string, interval time.Duration, query QueryFunc[T]) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	p := &poller[T]{
		name:     name,
		interval: interval,
		query:    query,
		out:      make(chan Snapshot[T]),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(p.out)
		p.run(ctx)
	}()

	return NewSubscription(p.out, func() {
		cancel()
		<-done
	})
}

func (p *poller[T]) run(ctx context.Context) {
	p.pollOnce(ctx)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			p.pollOnce(ctx)
			timer.Reset(p.interval)
		}
	}
}

func (p *poller[T]) pollOnce(ctx context.Context) {
	docs, err := p.query(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("live query %s failed: %v", p.name, err)
		}
		return
	}
	if docs == nil {
		docs = []T{}
	}

	sum, err := fingerprint(docs)
	if err != nil {
		log.Printf("live query %s: could not fingerprint result set: %v", p.name, err)
	}

	snap := Snapshot[T]{Docs: docs, ReadAt: time.Now()}
	if err == nil && p.delivered && sum == p.last {
		snap = Snapshot[T]{ReadAt: snap.ReadAt, Unchanged: true}
	}

	select {
	case p.out <- snap:
		if !snap.Unchanged {
			p.last = sum
			p.delivered = err == nil
		}
	case <-ctx.Done():
	}
}

func fingerprint[T any](docs []T) (uint64, error) {
	b, err := json.Marshal(docs)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(b), nil
}
