package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Consumer reads payment events from a topic and hands them to a handler as
// decoded PaymentEvent values.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume blocks, delivering payment events until the context is canceled or
// the handler fails. Messages that do not decode as a PaymentEvent are logged
// and skipped; they cannot succeed on redelivery either.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, PaymentEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		event, err := decodeEvent(msg.Value)
		if err != nil {
			log.Printf("skip malformed payment event at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
	}
}

func decodeEvent(value []byte) (PaymentEvent, error) {
	var event PaymentEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return PaymentEvent{}, fmt.Errorf("decode payment event: %w", err)
	}
	return event, nil
}
