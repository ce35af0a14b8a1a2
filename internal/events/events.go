package events

import (
	"context"
	"time"
)

// Event types published after a successful write.
const (
	TypeOrderStatusChanged = "order.status_changed"
	TypeRequestDismissed   = "request.dismissed"
)

// Event describes a state change issued from the front desk.
type Event struct {
	Type        string    `json:"type"`
	Collection  string    `json:"collection"`
	DocumentID  string    `json:"document_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
	TableNumber int       `json:"table_number,omitempty"`
}

// RoutingKey is the topic routing key, e.g. "orders.paid".
func (e Event) RoutingKey() string {
	return e.Collection + "." + e.Status
}

// Publisher delivers state-change events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
