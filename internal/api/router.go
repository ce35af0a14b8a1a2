package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"frontdesk-backend/config"
	"frontdesk-backend/internal/liveview"
	"frontdesk-backend/internal/mw"
	"frontdesk-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg config.ServerConfig, live *liveview.Synchronizer, s store.Store, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(live, s, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	// Cached reads are invalidated by every new snapshot; the TTL only bounds memory.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl, live.Revision)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/dashboard", handler.GetDashboard)
		api.GET("/stats", caching, handler.GetStats)
		api.GET("/orders", caching, handler.GetOrders)
		api.GET("/billing", caching, handler.GetBilling)
		api.GET("/requests", handler.GetRequests)
		api.GET("/stream", handler.Stream)

		api.PATCH("/orders/:id/status", handler.UpdateOrderStatus)
		api.POST("/orders/:id/pay", handler.PayOrder)
		api.POST("/requests/:id/dismiss", handler.DismissRequest)

		api.POST("/intake/orders", handler.CreateOrder)
		api.POST("/intake/requests", handler.CreateServiceRequest)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
