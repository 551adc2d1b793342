package kafka_test

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkaadapter "marketplace/internal/adapters/out/kafka"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

func TestBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, kafkaadapter.Brokers(" a:9092, ,b:9092 "))
	assert.Empty(t, kafkaadapter.Brokers(""))
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := kafkaadapter.NewProducer(nil, "orders")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = kafkaadapter.NewProducer([]string{"localhost:9092"}, "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	p, err := kafkaadapter.NewProducer([]string{"localhost:9092"}, "orders")
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducer_Produce(t *testing.T) {
	occurred := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	writer := &MockWriter{}
	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 &&
			string(msgs[0].Key) == "order-1" &&
			string(msgs[0].Value) == `{"event":"order.created"}` &&
			msgs[0].Time.Equal(occurred) &&
			string(msgs[0].Headers[0].Value) == "order.created"
	})).Return(nil).Once()

	p := kafkaadapter.NewProducerWithWriter(writer)
	err := p.Produce(t.Context(), []ports.OutboxMessage{{
		ID:         1,
		EventID:    "evt-1",
		Name:       "order.created",
		Key:        "order-1",
		Payload:    []byte(`{"event":"order.created"}`),
		OccurredAt: occurred,
	}})

	require.NoError(t, err)
	writer.AssertExpectations(t)
}

func TestProducer_ProduceEmptyBatchIsNoop(t *testing.T) {
	writer := &MockWriter{}
	p := kafkaadapter.NewProducerWithWriter(writer)

	require.NoError(t, p.Produce(t.Context(), nil))
	writer.AssertNotCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}

func TestProducer_ProduceFailureIsRetryable(t *testing.T) {
	writer := &MockWriter{}
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	p := kafkaadapter.NewProducerWithWriter(writer)

	err := p.Produce(t.Context(), []ports.OutboxMessage{{ID: 1, Key: "k", Payload: []byte("{}")}})

	require.ErrorIs(t, err, errs.ErrPersistence)
	assert.True(t, errs.IsRetryable(err))
}
