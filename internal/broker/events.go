package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/storefront-backend/internal/app/model"
)

const EventTypeOrderCreated = "order.created"

type BaseEvent struct {
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderItemData struct {
	ProductID uint    `json:"productId"`
	VariantID *uint   `json:"variantId,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderCreatedEvent is published after a checkout commits
type OrderCreatedEvent struct {
	BaseEvent
	OrderID       uint            `json:"orderId"`
	UserID        uint            `json:"userId"`
	TotalPrice    float64         `json:"totalPrice"`
	TotalItems    int             `json:"totalItems"`
	PaymentMethod string          `json:"paymentMethod"`
	Items         []OrderItemData `json:"items"`
}

// NewOrderCreatedEvent snapshots order into an event
func NewOrderCreatedEvent(order *model.Order) *OrderCreatedEvent {
	items := make([]OrderItemData, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemData{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return &OrderCreatedEvent{
		BaseEvent: BaseEvent{
			EventID:   uuid.NewString(),
			EventType: EventTypeOrderCreated,
			Timestamp: time.Now().UTC(),
		},
		OrderID:       order.ID,
		UserID:        order.UserID,
		TotalPrice:    order.TotalPrice,
		TotalItems:    order.TotalItems,
		PaymentMethod: order.PaymentMethod,
		Items:         items,
	}
}

// OrderEventPublisher announces order lifecycle events
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *OrderCreatedEvent) error
}

type EventPublisher struct {
	producer *Producer
}

func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// NoopPublisher drops events; used when no brokers are configured
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *OrderCreatedEvent) error {
	return nil
}
