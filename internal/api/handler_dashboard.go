package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"frontdesk-backend/internal/liveview"
	"frontdesk-backend/internal/model"
	"frontdesk-backend/internal/parse"
)

type orderResponse struct {
	model.Order
	NextAction string `json:"nextAction,omitempty"`
}

type requestResponse struct {
	model.ServiceRequest
	TimeAgo  string `json:"timeAgo"`
	Priority int    `json:"priority"`
}

type statsResponse struct {
	model.Stats
	CapacityPercentage int `json:"capacityPercentage"`
}

// DashboardResponse is the full live view served to the admin dashboard.
type DashboardResponse struct {
	Orders       []orderResponse   `json:"orders"`
	Billing      []orderResponse   `json:"billing"`
	Requests     []requestResponse `json:"requests"`
	Stats        statsResponse     `json:"stats"`
	LastSync     time.Time         `json:"lastSync"`
	LastSyncText string            `json:"lastSyncText"`
	Stale        bool              `json:"stale"`
	Revision     uint64            `json:"revision"`
}

func toOrders(orders []model.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		r := orderResponse{Order: o}
		if next, ok := liveview.NextAction(o.Status); ok {
			r.NextAction = string(next)
		}
		out = append(out, r)
	}
	return out
}

func toRequests(requests []model.ServiceRequest, now time.Time) []requestResponse {
	out := make([]requestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, requestResponse{
			ServiceRequest: r,
			TimeAgo:        liveview.FormatTimeAgo(r.RequestTime, now),
			Priority:       parse.Priority(r.Type),
		})
	}
	return out
}

func toStats(s model.Stats) statsResponse {
	return statsResponse{Stats: s, CapacityPercentage: liveview.CapacityPercentage(s)}
}

func (h *Handler) dashboard(v liveview.View) DashboardResponse {
	now := h.live.Now()
	return DashboardResponse{
		Orders:       toOrders(v.Orders),
		Billing:      toOrders(v.Billing()),
		Requests:     toRequests(v.Requests, now),
		Stats:        toStats(v.Stats),
		LastSync:     v.LastSync,
		LastSyncText: liveview.FormatLastSync(v.LastSync, now),
		Stale:        h.live.Stale(),
		Revision:     v.Revision,
	}
}

// GetDashboard handles GET /api/dashboard.
func (h *Handler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard(h.live.View()))
}

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, toStats(h.live.Stats()))
}

// GetOrders handles GET /api/orders.
func (h *Handler) GetOrders(c *gin.Context) {
	c.JSON(http.StatusOK, toOrders(h.live.View().Orders))
}

// GetBilling handles GET /api/billing, the orders ready to be paid.
func (h *Handler) GetBilling(c *gin.Context) {
	c.JSON(http.StatusOK, toOrders(h.live.View().Billing()))
}

// GetRequests handles GET /api/requests.
func (h *Handler) GetRequests(c *gin.Context) {
	c.JSON(http.StatusOK, toRequests(h.live.View().Requests, h.live.Now()))
}
