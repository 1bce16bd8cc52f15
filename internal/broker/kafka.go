package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishTimeout bounds a single publish. Events are written once and never
// retried, so a slow broker cannot hold up the caller for long.
const publishTimeout = 3 * time.Second

type Producer struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
}

// NewProducer creates a Kafka producer for one topic
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            1,
		WriteTimeout:           publishTimeout,
		ReadTimeout:            publishTimeout,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: writer, topic: topic, timeout: publishTimeout}
}

// PublishEvent JSON-encodes event and writes it under key
func (p *Producer) PublishEvent(ctx context.Context, key string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: eventBytes,
		Time:  time.Now(),
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	logger.Debug("Published event", map[string]interface{}{
		"topic": p.topic,
		"key":   key,
		"type":  fmt.Sprintf("%T", event),
	})
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
