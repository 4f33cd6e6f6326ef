package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConsumer(handler Handler, attempts int) *Consumer {
	return &Consumer{
		handler:  handler,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		attempts: attempts,
		backoff:  time.Millisecond,
	}
}

func TestConsumer_HandleRetries(t *testing.T) {
	msg := kafkago.Message{
		Key:     []byte("loan-1"),
		Value:   []byte(`{}`),
		Headers: []kafkago.Header{{Key: "event_type", Value: []byte("lending.payment.recorded")}},
	}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		c := testConsumer(func(_ context.Context, m Message) error {
			calls++
			assert.Equal(t, "lending.payment.recorded", m.Headers["event_type"])
			if calls < 3 {
				return errors.New("lock held")
			}
			return nil
		}, 5)

		require.NoError(t, c.handle(context.Background(), msg))
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		calls := 0
		c := testConsumer(func(context.Context, Message) error {
			calls++
			return errors.New("conn reset")
		}, 3)

		err := c.handle(context.Background(), msg)
		require.EqualError(t, err, "conn reset")
		assert.Equal(t, 3, calls)
	})

	t.Run("stops waiting when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c := testConsumer(func(context.Context, Message) error {
			cancel()
			return errors.New("conn reset")
		}, 5)
		c.backoff = time.Hour

		assert.ErrorIs(t, c.handle(ctx, msg), context.Canceled)
	})
}

func TestNewConsumer_Defaults(t *testing.T) {
	c, err := NewConsumer(Config{Brokers: []string{"localhost:9092"}, ConsumerGroup: "g"}, "topic", nil, slog.Default())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, defaultHandlerAttempts, c.attempts)
	assert.Equal(t, defaultRetryBackoff, c.backoff)
}
