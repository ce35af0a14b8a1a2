package events

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConfirm answers once ready is closed, or never when ready is nil.
type fakeConfirm struct {
	ack   bool
	ready chan struct{}
}

func (c *fakeConfirm) WaitContext(ctx context.Context) (bool, error) {
	select {
	case <-c.ready:
		return c.ack, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func answered(ack bool) *fakeConfirm {
	ready := make(chan struct{})
	close(ready)
	return &fakeConfirm{ack: ack, ready: ready}
}

type fakeChannel struct {
	exchange  string
	key       string
	msg       amqp.Publishing
	err       error
	confirms  []*fakeConfirm
	noConfirm bool
}

func (f *fakeChannel) Publish(_ context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	f.exchange, f.key, f.msg = exchange, key, msg
	if f.err != nil {
		return nil, f.err
	}
	if f.noConfirm {
		return nil, nil
	}
	c := f.confirms[0]
	f.confirms = f.confirms[1:]
	return c, nil
}

func (f *fakeChannel) Close() error { return nil }

func newPublisher(ch *fakeChannel) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: "frontdesk_events", confirmTimeout: DefaultConfirmTimeout}
}

func TestRabbitPublisher_Publish(t *testing.T) {
	at := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	ch := &fakeChannel{confirms: []*fakeConfirm{answered(true)}}
	p := newPublisher(ch)

	err := p.Publish(context.Background(), Event{
		Type:       TypeOrderStatusChanged,
		Collection: "orders",
		DocumentID: "o1",
		Status:     "paid",
		OccurredAt: at,
	})
	require.NoError(t, err)

	assert.Equal(t, "frontdesk_events", ch.exchange)
	assert.Equal(t, "orders.paid", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "o1", ch.msg.MessageId)
	assert.Equal(t, at, ch.msg.Timestamp)
	assert.JSONEq(t, `{"type":"order.status_changed","collection":"orders","document_id":"o1","status":"paid","occurred_at":"2024-03-01T20:00:00Z"}`, string(ch.msg.Body))
}

func TestRabbitPublisher_Nack(t *testing.T) {
	p := newPublisher(&fakeChannel{confirms: []*fakeConfirm{answered(false)}})

	err := p.Publish(context.Background(), Event{Type: TypeRequestDismissed, Collection: "requests", Status: "dismissed"})
	assert.EqualError(t, err, "publish NACK from broker")
}

func TestRabbitPublisher_PublishError(t *testing.T) {
	p := newPublisher(&fakeChannel{err: errors.New("channel closed")})

	err := p.Publish(context.Background(), Event{Type: TypeRequestDismissed, Collection: "requests", Status: "dismissed"})
	assert.ErrorContains(t, err, "channel closed")
}

func TestRabbitPublisher_WithoutConfirmMode(t *testing.T) {
	p := newPublisher(&fakeChannel{noConfirm: true})

	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeOrderStatusChanged, Collection: "orders", Status: "ready"}))
}

func TestRabbitPublisher_ContextEndsWhileWaitingForConfirm(t *testing.T) {
	p := newPublisher(&fakeChannel{confirms: []*fakeConfirm{{}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, Event{Type: TypeOrderStatusChanged, Collection: "orders", Status: "ready"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRabbitPublisher_ConfirmTimeout(t *testing.T) {
	late := &fakeConfirm{ack: true, ready: make(chan struct{})}
	ch := &fakeChannel{confirms: []*fakeConfirm{late, answered(false)}}
	p := newPublisher(ch)
	p.confirmTimeout = 20 * time.Millisecond

	start := time.Now()
	err := p.Publish(context.Background(), Event{Type: TypeOrderStatusChanged, Collection: "orders", Status: "ready"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	// The abandoned confirm arriving late is not taken as the next publish's answer.
	close(late.ready)
	err = p.Publish(context.Background(), Event{Type: TypeOrderStatusChanged, Collection: "orders", Status: "paid"})
	assert.EqualError(t, err, "publish NACK from broker")
}
