package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	json "github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"frontdesk-backend/internal/liveview"
	"frontdesk-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Payload is the JSON body delivered to the staff service worker.
type Payload struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Tag         string `json:"tag"`
	TableNumber int    `json:"tableNumber"`
	Type        string `json:"type"`
}

// WorkerPool manages a pool of workers for sending service request alerts.
type WorkerPool struct {
	size    int
	jobs    chan model.ServiceRequest
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
	seen    *cache.Cache
	since   time.Time
}

// NewWorkerPool creates a new worker pool. A request id is alerted at most once within dedupe.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, dedupe time.Duration) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan model.ServiceRequest, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{}, // Use the real sender by default
		seen:    cache.New(dedupe, 2*dedupe),
		since:   time.Now(),
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case req := <-wp.jobs:
			log.Printf("Worker %d processing request %s from table %d", id, req.ID, req.TableNumber)
			wp.sendNotificationsForRequest(ctx, req)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(req model.ServiceRequest) {
	wp.jobs <- req
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.ServiceRequest {
	return wp.jobs
}

// Watch dispatches every pending request the first time it shows up in a view. Requests
// raised before the pool was created are backlog: they are remembered but not alerted, so a
// restart does not re-alert the room. Watch returns when ctx is done or updates is closed.
func (wp *WorkerPool) Watch(ctx context.Context, updates <-chan liveview.View) {
	for {
		select {
		case v, ok := <-updates:
			if !ok {
				return
			}
			for _, req := range wp.fresh(v.Requests) {
				if req.RequestTime.Before(wp.since) {
					continue
				}
				select {
				case wp.jobs <- req:
				case <-ctx.Done():
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// fresh marks the pending requests as seen and returns the ones not seen before.
func (wp *WorkerPool) fresh(requests []model.ServiceRequest) []model.ServiceRequest {
	var out []model.ServiceRequest
	for _, req := range requests {
		if req.Status != model.RequestPending {
			continue
		}
		if err := wp.seen.Add(req.ID, struct{}{}, cache.DefaultExpiration); err != nil {
			continue
		}
		out = append(out, req)
	}
	return out
}

func newPayload(req model.ServiceRequest) Payload {
	body := req.Message
	if body == "" {
		body = fmt.Sprintf("%s requested", req.Type)
	}
	return Payload{
		Title:       fmt.Sprintf("Table %d needs %s", req.TableNumber, req.Type),
		Body:        body,
		Tag:         "request-" + req.ID,
		TableNumber: req.TableNumber,
		Type:        string(req.Type),
	}
}

// sendNotificationsForRequest fetches every staff subscription and alerts it.
func (wp *WorkerPool) sendNotificationsForRequest(ctx context.Context, req model.ServiceRequest) {
	var subscriptions []model.PushSubscription
	if err := wp.db.WithContext(ctx).Find(&subscriptions).Error; err != nil {
		log.Printf("Error fetching subscriptions for request %s: %v", req.ID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(newPayload(req))
	if err != nil {
		log.Printf("Error encoding notification for request %s: %v", req.ID, err)
		return
	}

	log.Printf("Sending %d notifications for request %s", len(subscriptions), req.ID)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
