package model

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderWaiting   OrderStatus = "waiting"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// ActiveOrderStatuses are the statuses shown on the live orders view.
var ActiveOrderStatuses = []OrderStatus{OrderWaiting, OrderPreparing, OrderReady}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderWaiting, OrderPreparing, OrderReady, OrderDelivered, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

// Active reports whether an order in status s belongs to the live view.
func (s OrderStatus) Active() bool {
	return s == OrderWaiting || s == OrderPreparing || s == OrderReady
}

// PaymentMethod is how the table intends to settle the bill.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentUPI || m == PaymentCard
}

// RequestType classifies a table-service request.
type RequestType string

const (
	RequestWater      RequestType = "water"
	RequestCleaning   RequestType = "cleaning"
	RequestNapkins    RequestType = "napkins"
	RequestAssistance RequestType = "assistance"
	RequestOther      RequestType = "other"
)

func (t RequestType) Valid() bool {
	switch t {
	case RequestWater, RequestCleaning, RequestNapkins, RequestAssistance, RequestOther:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a service request. Dismissed is terminal.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestDismissed RequestStatus = "dismissed"
)
