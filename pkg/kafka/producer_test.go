package kafka

import (
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, p.brokers)
	assert.Empty(t, p.writers)
	assert.Nil(t, p.transport.TLS)
	assert.Nil(t, p.transport.SASL)
}

func TestNewProducer_Security(t *testing.T) {
	t.Run("tls and plain sasl", func(t *testing.T) {
		p, err := NewProducer(Config{
			Brokers:      []string{"kafka:9093"},
			TLS:          true,
			SASLEnabled:  true,
			SASLUsername: "engine",
			SASLPassword: "secret",
		})
		require.NoError(t, err)
		require.NotNil(t, p.transport.TLS)
		assert.Equal(t, "PLAIN", p.transport.SASL.Name())
	})

	t.Run("scram", func(t *testing.T) {
		p, err := NewProducer(Config{
			Brokers:       []string{"kafka:9093"},
			SASLEnabled:   true,
			SASLMechanism: "SCRAM-SHA-512",
			SASLUsername:  "engine",
			SASLPassword:  "secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "SCRAM-SHA-512", p.transport.SASL.Name())
	})

	t.Run("unsupported mechanism", func(t *testing.T) {
		_, err := NewProducer(Config{SASLEnabled: true, SASLMechanism: "GSSAPI"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported SASL mechanism")
	})
}

func TestProducer_WriterPerTopic(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	w1 := p.writer("lending.events")
	w2 := p.writer("lending.events")
	w3 := p.writer("lending.payments")

	assert.Same(t, w1, w2)
	assert.NotSame(t, w1, w3)
	assert.IsType(t, &kafkago.Hash{}, w1.Balancer)
	assert.Len(t, p.writers, 2)

	require.NoError(t, p.Close())
	assert.Empty(t, p.writers)
}

func TestToMessage(t *testing.T) {
	msg := toMessage(kafkago.Message{
		Key:   []byte("loan-1"),
		Value: []byte(`{"loan_id":"loan-1"}`),
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte("lending.payment.recorded")},
		},
	})

	assert.Equal(t, "loan-1", string(msg.Key))
	assert.Equal(t, "lending.payment.recorded", msg.Headers["event_type"])
}
