package liveview

import (
	"time"

	"frontdesk-backend/internal/model"
)

// View is a consistent copy of the synchronizer state.
type View struct {
	Orders   []model.Order
	Requests []model.ServiceRequest
	Stats    model.Stats
	LastSync time.Time
	Revision uint64
}

// Billing returns the active orders waiting to be settled.
func (v View) Billing() []model.Order {
	out := make([]model.Order, 0)
	for _, o := range v.Orders {
		if o.Status == model.OrderReady {
			out = append(out, o)
		}
	}
	return out
}
