package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg := Load()

	assert.Equal(t, "loan-engine", cfg.ServiceName)
	assert.Equal(t, ":9087", cfg.GRPCAddr())
	assert.Equal(t, ":8087", cfg.HTTPAddr())
	assert.Equal(t, "require", cfg.DB.SSLMode)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "lending.payment.recorded", cfg.Kafka.PaymentsTopic)
	assert.Equal(t, "loan-engine", cfg.Kafka.ConsumerGroup)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Empty(t, cfg.Redis.Address)
	assert.False(t, cfg.TLS.Enabled())
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("LOCK_TTL", "5s")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("GRPC_REFLECTION", "true")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("HTTP_PORT", "not-a-number")

	cfg := Load()

	assert.Equal(t, ":7000", cfg.GRPCAddr())
	assert.Equal(t, ":8087", cfg.HTTPAddr(), "unparseable values fall back to the default")
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Second, cfg.LockTTL)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.True(t, cfg.GRPCReflection)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := Config{TLS: TLSConfig{CertFile: "server.pem"}}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"DB_PASSWORD", "KAFKA_BROKERS", "LOCK_TTL", "OUTBOX_POLL_INTERVAL", "GRPC_TLS_KEY_FILE"} {
		assert.Contains(t, err.Error(), want)
	}
}
