// Package kafka relays outbox messages to a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

var ErrNoBrokers = errs.NewValueIsRequiredError("KAFKA_HOST")

// Brokers splits a comma separated broker list, skipping blanks.
func Brokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes outbox messages keyed by order id, so all events of one
// order land on the same partition in order.
type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("KAFKA_ORDER_CHANGED_TOPIC")
	}

	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}), nil
}

func newProducer(w messageWriter) *Producer {
	return &Producer{writer: w}
}

func (p *Producer) Produce(ctx context.Context, messages []ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]kafka.Message, len(messages))
	for i, m := range messages {
		batch[i] = kafka.Message{
			Key:   []byte(m.Key),
			Value: m.Payload,
			Time:  m.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event", Value: []byte(m.Name)},
				{Key: "event_id", Value: []byte(m.EventID)},
			},
		}
	}

	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		return errs.NewPersistenceError("produce outbox batch", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
