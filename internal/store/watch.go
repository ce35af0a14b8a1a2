package store

import (
	"context"
	"time"

	"frontdesk-backend/internal/livequery"
	"frontdesk-backend/internal/model"
)

// WatchSource exposes the store's live queries as snapshot subscriptions.
type WatchSource struct {
	store    Store
	interval time.Duration
}

// NewWatchSource creates a source that re-runs the live queries every interval.
func NewWatchSource(s Store, interval time.Duration) *WatchSource {
	return &WatchSource{store: s, interval: interval}
}

// WatchOrders subscribes to active orders ordered by order time, newest first.
func (w *WatchSource) WatchOrders(ctx context.Context) (*livequery.Subscription[model.Order], error) {
	return livequery.Poll(ctx, CollectionOrders, w.interval, w.store.ActiveOrders), nil
}

// WatchRequests subscribes to pending service requests ordered by request time, newest first.
func (w *WatchSource) WatchRequests(ctx context.Context) (*livequery.Subscription[model.ServiceRequest], error) {
	return livequery.Poll(ctx, CollectionRequests, w.interval, w.store.PendingRequests), nil
}
