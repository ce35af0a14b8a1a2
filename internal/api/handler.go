package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"frontdesk-backend/internal/liveview"
	"frontdesk-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	live      *liveview.Synchronizer
	store     store.Store
	webpush   *webpush.Options
	keepAlive time.Duration
}

// NewHandler creates a new API handler.
func NewHandler(live *liveview.Synchronizer, s store.Store, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		live:      live,
		store:     s,
		webpush:   webpushOptions,
		keepAlive: 15 * time.Second,
	}
}
