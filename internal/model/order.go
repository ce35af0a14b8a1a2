package model

import "time"

// OrderItem is a single line on an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is a document of the orders collection.
type Order struct {
	ID            string        `gorm:"primaryKey;size:64" json:"id"`
	TableNumber   int           `gorm:"not null" json:"tableNumber"`
	Items         []OrderItem   `gorm:"serializer:json;type:text;not null" json:"items"`
	TotalAmount   float64       `gorm:"not null" json:"totalAmount"`
	Status        OrderStatus   `gorm:"size:16;not null;index:idx_orders_status_time,priority:1" json:"status"`
	PaymentMethod PaymentMethod `gorm:"size:8;not null" json:"paymentMethod"`
	OrderTime     time.Time     `gorm:"not null;index:idx_orders_status_time,priority:2,sort:desc" json:"orderTime"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
	Notes         *string       `gorm:"size:512" json:"notes,omitempty"`
}
