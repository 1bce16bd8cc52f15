package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

// stalledWriter never acknowledges and only returns once ctx is done
type stalledWriter struct {
	calls int
}

func (w *stalledWriter) WriteMessages(ctx context.Context, _ ...kafka.Message) error {
	w.calls++
	<-ctx.Done()
	return ctx.Err()
}

func (w *stalledWriter) Close() error { return nil }

func TestEventPublisher_PublishOrderCreated(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewEventPublisher(&Producer{writer: writer, topic: "orders.created"})

	variantID := uint(7)
	order := &model.Order{
		ID:            42,
		UserID:        3,
		TotalPrice:    59.97,
		TotalItems:    3,
		PaymentMethod: "card",
		Items:         []model.OrderItem{{ProductID: 1, VariantID: &variantID, Quantity: 3, Price: 19.99}},
	}

	require.NoError(t, publisher.PublishOrderCreated(context.Background(), NewOrderCreatedEvent(order)))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, "order-42", string(writer.messages[0].Key))

	var decoded OrderCreatedEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, EventTypeOrderCreated, decoded.EventType)
	assert.NotEmpty(t, decoded.EventID)
	assert.Equal(t, uint(42), decoded.OrderID)
	assert.Equal(t, 59.97, decoded.TotalPrice)
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, uint(7), *decoded.Items[0].VariantID)
}

func TestProducer_WriteError(t *testing.T) {
	producer := &Producer{writer: &recordingWriter{err: errors.New("broker down")}, topic: "orders.created"}

	err := producer.PublishEvent(context.Background(), "k", map[string]string{"a": "b"})
	assert.ErrorContains(t, err, "broker down")
}

func TestProducer_PublishDeadline(t *testing.T) {
	writer := &stalledWriter{}
	producer := &Producer{writer: writer, topic: "orders.created", timeout: 50 * time.Millisecond}

	start := time.Now()
	err := producer.PublishEvent(context.Background(), "k", map[string]string{"a": "b"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, writer.calls)
}

func TestNewProducer_SingleAttempt(t *testing.T) {
	producer := NewProducer([]string{"localhost:9092"}, "orders.created")
	defer producer.Close()

	writer, ok := producer.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 1, writer.MaxAttempts)
	assert.Equal(t, publishTimeout, writer.WriteTimeout)
	assert.Equal(t, publishTimeout, producer.timeout)
}

func TestNoopPublisher(t *testing.T) {
	var p OrderEventPublisher = NoopPublisher{}
	assert.NoError(t, p.PublishOrderCreated(context.Background(), &OrderCreatedEvent{}))
}
