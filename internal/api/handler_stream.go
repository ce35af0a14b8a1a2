package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Stream handles GET /api/stream. It sends the current dashboard at once and then one
// "dashboard" event for every new snapshot, until the client goes away.
func (h *Handler) Stream(c *gin.Context) {
	updates, stop := h.live.Updates()
	defer stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent("dashboard", h.dashboard(h.live.View()))
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case v, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent("dashboard", h.dashboard(v))
			c.Writer.Flush()
		case <-ticker.C:
			c.SSEvent("ping", h.live.Revision())
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}
