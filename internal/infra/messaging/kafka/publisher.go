package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	kafkaGo "github.com/segmentio/kafka-go"

	checkoutuc "example.com/shop-backend/internal/usecase/checkout"
)

// Publisher writes purchase-completed events to a Kafka topic, keyed by user
// id so one buyer's purchases stay ordered.
type Publisher struct {
	writer *kafkaGo.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkaGo.LeastBytes{},
		},
	}
}

func (p *Publisher) PublishPurchaseCompleted(ctx context.Context, ev checkoutuc.PurchaseCompleted) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal purchase event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(strconv.FormatInt(ev.UserID, 10)),
		Value: payload,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
