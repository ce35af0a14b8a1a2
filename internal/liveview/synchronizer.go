package liveview

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"frontdesk-backend/internal/events"
	"frontdesk-backend/internal/livequery"
	"frontdesk-backend/internal/model"
	"frontdesk-backend/internal/store"
)

// CancelFunc releases a live subscription. It blocks until the subscription's consumer
// has exited; calls after the first do nothing.
type CancelFunc func()

// Source opens the live queries the synchronizer mirrors.
type Source interface {
	WatchOrders(ctx context.Context) (*livequery.Subscription[model.Order], error)
	WatchRequests(ctx context.Context) (*livequery.Subscription[model.ServiceRequest], error)
}

// Writer issues partial-field updates against the document store.
type Writer interface {
	UpdateOrder(ctx context.Context, id string, fields map[string]any) error
	UpdateRequest(ctx context.Context, id string, fields map[string]any) error
}

// Options configures a Synchronizer.
type Options struct {
	TotalTables        int
	StaleAfter         time.Duration
	EnforceTransitions bool
	Events             events.Publisher
	Now                func() time.Time
}

// Synchronizer keeps local snapshots of the active orders and pending service requests
// and the statistics derived from them.
type Synchronizer struct {
	source Source
	writer Writer
	events events.Publisher
	now    func() time.Time

	totalTables int
	staleAfter  time.Duration
	enforce     bool

	mu        sync.RWMutex
	orders    []model.Order
	requests  []model.ServiceRequest
	stats     model.Stats
	lastSync  time.Time
	revision  uint64
	listeners map[int]chan View
	nextID    int
}

// New creates a synchronizer with empty snapshots.
func New(source Source, writer Writer, opts Options) *Synchronizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	s := &Synchronizer{
		source:      source,
		writer:      writer,
		events:      opts.Events,
		now:         opts.Now,
		totalTables: opts.TotalTables,
		staleAfter:  opts.StaleAfter,
		enforce:     opts.EnforceTransitions,
		orders:      []model.Order{},
		requests:    []model.ServiceRequest{},
		listeners:   make(map[int]chan View),
	}
	s.stats = ComputeStats(nil, nil, s.totalTables)
	s.lastSync = s.now()
	return s
}

// Open subscribes to both live queries. The returned CancelFunc releases both; if the
// second subscription cannot be opened the first is released before returning.
func (s *Synchronizer) Open(ctx context.Context) (CancelFunc, error) {
	cancelOrders, err := s.SubscribeOrders(ctx)
	if err != nil {
		return nil, err
	}
	cancelRequests, err := s.SubscribeServiceRequests(ctx)
	if err != nil {
		cancelOrders()
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			cancelRequests()
			cancelOrders()
		})
	}, nil
}

// SubscribeOrders mirrors the active orders live query into the local snapshot.
func (s *Synchronizer) SubscribeOrders(ctx context.Context) (CancelFunc, error) {
	sub, err := s.source.WatchOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to orders: %w", err)
	}
	return consume(sub, s.replaceOrders, s.touch), nil
}

// SubscribeServiceRequests mirrors the pending requests live query into the local snapshot.
func (s *Synchronizer) SubscribeServiceRequests(ctx context.Context) (CancelFunc, error) {
	sub, err := s.source.WatchRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to service requests: %w", err)
	}
	return consume(sub, s.replaceRequests, s.touch), nil
}

func consume[T any](sub *livequery.Subscription[T], apply func([]T), touch func()) CancelFunc {
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case snap, ok := <-sub.C():
				if !ok {
					return
				}
				if snap.Unchanged {
					touch()
					continue
				}
				apply(snap.Docs)
			case <-quit:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			sub.Stop()
			<-done
		})
	}
}

func (s *Synchronizer) replaceOrders(docs []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = docs
	s.broadcastLocked(s.deliveredLocked())
}

func (s *Synchronizer) replaceRequests(docs []model.ServiceRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = docs
	s.broadcastLocked(s.deliveredLocked())
}

// touch records a successful read that found nothing new. The snapshots, stats and
// revision stay as they are.
func (s *Synchronizer) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = s.now()
}

// deliveredLocked recomputes the stats and sync bookkeeping after a snapshot replacement.
func (s *Synchronizer) deliveredLocked() View {
	s.stats = ComputeStats(s.orders, s.requests, s.totalTables)
	s.lastSync = s.now()
	s.revision++
	return s.viewLocked()
}

// UpdateOrderStatus writes a new status for an order, stamping paidAt when it is paid.
// The local snapshot changes only when the live query delivers the update.
func (s *Synchronizer) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	current, known := s.findOrder(orderID)
	if s.enforce && known && !CanTransition(current.Status, status) {
		return fmt.Errorf("%w: order %s is %s, cannot become %s", ErrInvalidTransition, orderID, current.Status, status)
	}

	now := s.now()
	fields := map[string]any{store.FieldStatus: string(status)}
	if status == model.OrderPaid {
		fields[store.FieldPaidAt] = now
	}

	if err := s.writer.UpdateOrder(ctx, orderID, fields); err != nil {
		return &WriteError{Op: "update order status", Collection: store.CollectionOrders, ID: orderID, Err: err}
	}

	s.publish(ctx, events.Event{
		Type:        events.TypeOrderStatusChanged,
		Collection:  store.CollectionOrders,
		DocumentID:  orderID,
		Status:      string(status),
		OccurredAt:  now,
		TableNumber: current.TableNumber,
	})
	return nil
}

// MarkOrderPaid settles an order.
func (s *Synchronizer) MarkOrderPaid(ctx context.Context, orderID string) error {
	return s.UpdateOrderStatus(ctx, orderID, model.OrderPaid)
}

// DismissServiceRequest marks a request as handled.
func (s *Synchronizer) DismissServiceRequest(ctx context.Context, requestID string) error {
	now := s.now()
	fields := map[string]any{
		store.FieldStatus:      string(model.RequestDismissed),
		store.FieldDismissedAt: now,
	}

	if err := s.writer.UpdateRequest(ctx, requestID, fields); err != nil {
		return &WriteError{Op: "dismiss service request", Collection: store.CollectionRequests, ID: requestID, Err: err}
	}

	var table int
	if req, ok := s.findRequest(requestID); ok {
		table = req.TableNumber
	}
	s.publish(ctx, events.Event{
		Type:        events.TypeRequestDismissed,
		Collection:  store.CollectionRequests,
		DocumentID:  requestID,
		Status:      string(model.RequestDismissed),
		OccurredAt:  now,
		TableNumber: table,
	})
	return nil
}

func (s *Synchronizer) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("Warning: could not publish %s for %s/%s: %v", ev.Type, ev.Collection, ev.DocumentID, err)
	}
}

func (s *Synchronizer) findOrder(orderID string) (model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return model.Order{}, false
}

func (s *Synchronizer) findRequest(requestID string) (model.ServiceRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requests {
		if r.ID == requestID {
			return r, true
		}
	}
	return model.ServiceRequest{}, false
}

// View returns a copy of the current snapshots and statistics.
func (s *Synchronizer) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

// Stats returns the current derived statistics.
func (s *Synchronizer) Stats() model.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Revision increases by one with every delivered snapshot.
func (s *Synchronizer) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// LastSync is the instant of the most recent successful read of either live query.
func (s *Synchronizer) LastSync() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync
}

// Stale reports whether neither live query has reported a read within the configured
// threshold. Unchanged reads count, so a quiet room with a healthy store is not stale.
func (s *Synchronizer) Stale() bool {
	if s.staleAfter <= 0 {
		return false
	}
	return s.now().Sub(s.LastSync()) > s.staleAfter
}

// Now is the synchronizer's clock.
func (s *Synchronizer) Now() time.Time {
	return s.now()
}

func (s *Synchronizer) viewLocked() View {
	orders := make([]model.Order, len(s.orders))
	copy(orders, s.orders)
	requests := make([]model.ServiceRequest, len(s.requests))
	copy(requests, s.requests)
	return View{
		Orders:   orders,
		Requests: requests,
		Stats:    s.stats,
		LastSync: s.lastSync,
		Revision: s.revision,
	}
}
