package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"frontdesk-backend/internal/liveview"
	"frontdesk-backend/internal/model"
	"frontdesk-backend/internal/store"
)

// Toast mirrors the notification shown to staff after an action.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

type updateStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	id := c.Param("id")
	if err := h.live.UpdateOrderStatus(c.Request.Context(), id, req.Status); err != nil {
		respondActionError(c, err, "Failed to update order status")
		return
	}

	c.JSON(http.StatusOK, Toast{
		Title:       "Order Updated",
		Description: fmt.Sprintf("Order status changed to %s", req.Status),
	})
}

// PayOrder handles POST /api/orders/:id/pay.
func (h *Handler) PayOrder(c *gin.Context) {
	if err := h.live.MarkOrderPaid(c.Request.Context(), c.Param("id")); err != nil {
		respondActionError(c, err, "Failed to process payment")
		return
	}

	c.JSON(http.StatusOK, Toast{
		Title:       "Payment Processed",
		Description: "Order has been marked as paid",
	})
}

// DismissRequest handles POST /api/requests/:id/dismiss.
func (h *Handler) DismissRequest(c *gin.Context) {
	if err := h.live.DismissServiceRequest(c.Request.Context(), c.Param("id")); err != nil {
		respondActionError(c, err, "Failed to dismiss request")
		return
	}

	c.JSON(http.StatusOK, Toast{
		Title:       "Request Dismissed",
		Description: "Service request has been marked as completed",
	})
}

// respondActionError logs a failed staff action and maps it to a status code.
func respondActionError(c *gin.Context, err error, description string) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)

	var werr *liveview.WriteError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, liveview.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, liveview.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &werr):
		status = http.StatusBadGateway
	}

	c.JSON(status, Toast{
		Title:       "Error",
		Description: description,
		Variant:     "destructive",
	})
}
