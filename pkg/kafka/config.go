// Package kafka wraps segmentio/kafka-go with the producer and consumer
// shapes used across the lending engine.
package kafka

import "time"

// Config holds Kafka connection parameters.
type Config struct {
	ConsumerGroup string
	ClientID      string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN" or "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	TLS         bool
	SASLEnabled bool

	// HandlerAttempts bounds how often a consumer retries one message; zero
	// means 5. RetryBackoff is the first retry delay and doubles each time.
	HandlerAttempts int
	RetryBackoff    time.Duration
}
