package liveview

import "frontdesk-backend/internal/model"

var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderWaiting:   {model.OrderPreparing, model.OrderCancelled},
	model.OrderPreparing: {model.OrderReady, model.OrderCancelled},
	model.OrderReady:     {model.OrderDelivered, model.OrderPaid, model.OrderCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to model.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextAction is the forward step offered for an order, if any.
func NextAction(status model.OrderStatus) (model.OrderStatus, bool) {
	switch status {
	case model.OrderWaiting:
		return model.OrderPreparing, true
	case model.OrderPreparing:
		return model.OrderReady, true
	case model.OrderReady:
		return model.OrderDelivered, true
	}
	return "", false
}
