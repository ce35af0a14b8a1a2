package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"frontdesk-backend/internal/model"
	"frontdesk-backend/internal/parse"
)

type orderItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Price    float64 `json:"price" binding:"min=0"`
}

type createOrderRequest struct {
	TableNumber   int                `json:"tableNumber"`
	Table         string             `json:"table"`
	Items         []orderItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount   *float64           `json:"totalAmount" binding:"omitempty,min=0"`
	PaymentMethod string             `json:"paymentMethod" binding:"required,oneof=cash upi card"`
	Notes         *string            `json:"notes" binding:"omitempty,max=512"`
}

type createRequestRequest struct {
	TableNumber int    `json:"tableNumber"`
	Table       string `json:"table"`
	Type        string `json:"type"`
	Message     string `json:"message" binding:"max=512"`
}

// resolveTable accepts either a numeric table or a label such as "T12".
func resolveTable(number int, label string) (int, bool) {
	if number >= 1 {
		return number, true
	}
	if label == "" {
		return 0, false
	}
	n, err := parse.TableNumber(label)
	if err != nil {
		return 0, false
	}
	return n, true
}

// orderTotal sums price times quantity over the items.
func orderTotal(items []model.OrderItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2).InexactFloat64()
}

// CreateOrder handles POST /api/intake/orders.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, ok := resolveTable(req.TableNumber, req.Table)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid table is required"})
		return
	}

	items := make([]model.OrderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = model.OrderItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price}
	}

	order := model.Order{
		TableNumber:   table,
		Items:         items,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	} else {
		order.TotalAmount = orderTotal(items)
	}

	if err := h.store.CreateOrder(c.Request.Context(), &order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CreateServiceRequest handles POST /api/intake/requests.
func (h *Handler) CreateServiceRequest(c *gin.Context) {
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, ok := resolveTable(req.TableNumber, req.Table)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid table is required"})
		return
	}

	typ := model.RequestType(req.Type)
	switch {
	case req.Type == "":
		typ = parse.ClassifyRequest(req.Message)
	case !typ.Valid():
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown request type"})
		return
	}

	sr := model.ServiceRequest{
		TableNumber: table,
		Type:        typ,
		Message:     req.Message,
	}
	if err := h.store.CreateRequest(c.Request.Context(), &sr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, sr)
}
