package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"frontdesk-backend/internal/model"
)

// Collection names.
const (
	CollectionOrders   = "orders"
	CollectionRequests = "requests"
)

// Store defines the document store operations used by the front desk.
type Store interface {
	ActiveOrders(ctx context.Context) ([]model.Order, error)
	PendingRequests(ctx context.Context) ([]model.ServiceRequest, error)
	UpdateOrder(ctx context.Context, id string, fields map[string]any) error
	UpdateRequest(ctx context.Context, id string, fields map[string]any) error
	CreateOrder(ctx context.Context, order *model.Order) error
	CreateRequest(ctx context.Context, req *model.ServiceRequest) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time

	orderTimes   *firstSeen
	requestTimes *firstSeen
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now, orderTimes: newFirstSeen(), requestTimes: newFirstSeen()}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ActiveOrders returns orders still on the floor, newest first.
func (s *gormStore) ActiveOrders(ctx context.Context) ([]model.Order, error) {
	statuses := make([]string, len(model.ActiveOrderStatuses))
	for i, st := range model.ActiveOrderStatuses {
		statuses[i] = string(st)
	}

	var orders []model.Order
	if err := s.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("order_time DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to query active orders: %w", err)
	}
	return normalizeOrders(orders, s.orderTimes, s.now()), nil
}

// PendingRequests returns undismissed service requests, newest first.
func (s *gormStore) PendingRequests(ctx context.Context) ([]model.ServiceRequest, error) {
	var requests []model.ServiceRequest
	if err := s.db.WithContext(ctx).
		Where("status = ?", string(model.RequestPending)).
		Order("request_time DESC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to query pending requests: %w", err)
	}
	return normalizeRequests(requests, s.requestTimes, s.now()), nil
}

// UpdateOrder applies a partial update to one order document.
func (s *gormStore) UpdateOrder(ctx context.Context, id string, fields map[string]any) error {
	cols, err := toColumns(CollectionOrders, fields, orderColumns)
	if err != nil {
		return err
	}
	return s.update(ctx, &model.Order{}, CollectionOrders, id, cols)
}

// UpdateRequest applies a partial update to one service request document.
func (s *gormStore) UpdateRequest(ctx context.Context, id string, fields map[string]any) error {
	cols, err := toColumns(CollectionRequests, fields, requestColumns)
	if err != nil {
		return err
	}
	return s.update(ctx, &model.ServiceRequest{}, CollectionRequests, id, cols)
}

func (s *gormStore) update(ctx context.Context, target any, collection, id string, cols map[string]any) error {
	res := s.db.WithContext(ctx).Model(target).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// CreateOrder inserts a new order, filling the identifier and defaults.
func (s *gormStore) CreateOrder(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = model.OrderWaiting
	}
	if order.OrderTime.IsZero() {
		order.OrderTime = s.now()
	}
	if order.Items == nil {
		order.Items = []model.OrderItem{}
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// CreateRequest inserts a new pending service request.
func (s *gormStore) CreateRequest(ctx context.Context, req *model.ServiceRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = model.RequestPending
	}
	if req.RequestTime.IsZero() {
		req.RequestTime = s.now()
	}
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}
	return nil
}

// firstSeen remembers when a document without a stored timestamp was first read, so the
// default stays the same from one poll to the next.
type firstSeen struct {
	mu   sync.Mutex
	byID map[string]time.Time
}

func newFirstSeen() *firstSeen {
	return &firstSeen{byID: make(map[string]time.Time)}
}

// resolve returns the default timestamps for ids, keeping only those ids for the next call.
func (f *firstSeen) resolve(ids []string, now time.Time) map[string]time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]time.Time, len(ids))
	for _, id := range ids {
		t, ok := f.byID[id]
		if !ok {
			t = now
		}
		next[id] = t
	}
	f.byID = next
	return next
}

// normalizeOrders converts stored timestamps to UTC and gives an order without an order time
// the time it was first read. Orders stay sorted newest first.
func normalizeOrders(orders []model.Order, seen *firstSeen, now time.Time) []model.Order {
	var missing []string
	for _, o := range orders {
		if o.OrderTime.IsZero() {
			missing = append(missing, o.ID)
		}
	}
	defaults := seen.resolve(missing, now)

	for i := range orders {
		if orders[i].OrderTime.IsZero() {
			orders[i].OrderTime = defaults[orders[i].ID]
		}
		orders[i].OrderTime = orders[i].OrderTime.UTC()
		if orders[i].PaidAt != nil {
			paid := orders[i].PaidAt.UTC()
			orders[i].PaidAt = &paid
		}
		if orders[i].Items == nil {
			orders[i].Items = []model.OrderItem{}
		}
	}

	if len(missing) > 0 {
		slices.SortStableFunc(orders, func(a, b model.Order) int {
			return b.OrderTime.Compare(a.OrderTime)
		})
	}
	return orders
}

func normalizeRequests(requests []model.ServiceRequest, seen *firstSeen, now time.Time) []model.ServiceRequest {
	var missing []string
	for _, r := range requests {
		if r.RequestTime.IsZero() {
			missing = append(missing, r.ID)
		}
	}
	defaults := seen.resolve(missing, now)

	for i := range requests {
		if requests[i].RequestTime.IsZero() {
			requests[i].RequestTime = defaults[requests[i].ID]
		}
		requests[i].RequestTime = requests[i].RequestTime.UTC()
		if requests[i].DismissedAt != nil {
			dismissed := requests[i].DismissedAt.UTC()
			requests[i].DismissedAt = &dismissed
		}
	}

	if len(missing) > 0 {
		slices.SortStableFunc(requests, func(a, b model.ServiceRequest) int {
			return b.RequestTime.Compare(a.RequestTime)
		})
	}
	return requests
}
