package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avdeev/go-storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	Close() error
}

type OrderCreatedEvent struct {
	OrderID   string             `json:"order_id"`
	OwnerID   string             `json:"owner_id"`
	Total     string             `json:"total"`
	Items     []domain.OrderItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

// kafkaWriter is the subset of kafka.Writer the publisher needs.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer kafkaWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	event := OrderCreatedEvent{
		OrderID:   order.ID.String(),
		OwnerID:   order.OwnerID,
		Total:     order.Total.String(),
		Items:     order.Items,
		CreatedAt: order.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order created event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order created event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, *domain.Order) error { return nil }
func (NopPublisher) Close() error                                             { return nil }
