package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"frontdesk-backend/internal/liveview"
	"frontdesk-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func pending(id string, table int, typ model.RequestType) model.ServiceRequest {
	return model.ServiceRequest{ID: id, TableNumber: table, Type: typ, Status: model.RequestPending}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{}, time.Hour)

	wp.Dispatch(pending("r1", 4, model.RequestWater))

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "r1", job.ID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification to every subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(2)

		var mu sync.Mutex
		var endpoints []string
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				mu.Lock()
				endpoints = append(endpoints, sub.Endpoint)
				mu.Unlock()
				assert.JSONEq(t, `{
					"title": "Table 4 needs water",
					"body": "two glasses please",
					"tag": "request-r1",
					"tableNumber": 4,
					"type": "water"
				}`, string(payload))
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/a", "p256dh_a", "auth_a", time.Now()).
				AddRow("https://example.com/b", "p256dh_b", "auth_b", time.Now()))

		req := pending("r1", 4, model.RequestWater)
		req.Message = "two glasses please"
		wp.Dispatch(req)
		wg.Wait()

		assert.ElementsMatch(t, []string{"https://example.com/a", "https://example.com/b"}, endpoints)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/expired", "p256dh_x", "auth_x", time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(pending("r2", 7, model.RequestCleaning))

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("no subscriptions sends nothing", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("unexpected send")
				return nil, nil
			},
		}

		mock.ExpectQuery(`SELECT \* FROM "push_subscriptions"`).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}))

		wp.Dispatch(pending("r3", 1, model.RequestOther))

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
	})
}

func TestWorkerPool_Watch(t *testing.T) {
	wp := NewWorkerPool(4, nil, &webpush.Options{}, time.Hour)
	started := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)
	wp.since = started

	backlog := pending("old", 1, model.RequestWater)
	backlog.RequestTime = started.Add(-10 * time.Minute)
	fresh := pending("new", 2, model.RequestNapkins)
	fresh.RequestTime = started.Add(time.Minute)
	later := pending("later", 5, model.RequestAssistance)
	later.RequestTime = started.Add(2 * time.Minute)

	updates := make(chan liveview.View)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		wp.Watch(ctx, updates)
	}()

	// The orders stream delivers first; requests are still empty.
	updates <- liveview.View{Orders: []model.Order{{ID: "o1", TableNumber: 3}}, Revision: 1}
	updates <- liveview.View{Requests: []model.ServiceRequest{backlog, fresh}, Revision: 2}
	updates <- liveview.View{Requests: []model.ServiceRequest{backlog, fresh, later}, Revision: 3}
	updates <- liveview.View{Requests: []model.ServiceRequest{
		fresh,
		{ID: "gone", TableNumber: 3, Status: model.RequestDismissed, RequestTime: started.Add(time.Minute)},
	}, Revision: 4}
	close(updates)
	<-done

	require.Len(t, wp.Jobs(), 2)
	assert.Equal(t, "new", (<-wp.Jobs()).ID)
	assert.Equal(t, "later", (<-wp.Jobs()).ID)
}

func TestWorkerPool_WatchJoinedLate(t *testing.T) {
	wp := NewWorkerPool(4, nil, &webpush.Options{}, time.Hour)
	started := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)
	wp.since = started

	fresh := pending("new", 2, model.RequestWater)
	fresh.RequestTime = started.Add(30 * time.Second)

	updates := make(chan liveview.View, 1)
	// The first view seen already holds a request raised after startup.
	updates <- liveview.View{Requests: []model.ServiceRequest{fresh}, Revision: 7}
	close(updates)

	wp.Watch(context.Background(), updates)

	require.Len(t, wp.Jobs(), 1)
	assert.Equal(t, "new", (<-wp.Jobs()).ID)
}

func TestWorkerPool_WatchStopsOnCancel(t *testing.T) {
	wp := NewWorkerPool(1, nil, &webpush.Options{}, time.Hour)
	updates := make(chan liveview.View)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		wp.Watch(ctx, updates)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestNewPayload_DefaultBody(t *testing.T) {
	p := newPayload(pending("r9", 12, model.RequestAssistance))

	assert.Equal(t, "Table 12 needs assistance", p.Title)
	assert.Equal(t, "assistance requested", p.Body)
	assert.Equal(t, "request-r9", p.Tag)
}
