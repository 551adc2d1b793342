package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewProducerWithWriter(w MessageWriter) *Producer {
	return newProducer(w)
}
