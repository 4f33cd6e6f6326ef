package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/kafka"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/observability"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/postgres"
)

type KafkaConfig struct {
	PaymentsTopic string
	EventsTopic   string
	kafka.Config
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

// Enabled reports whether a server certificate is configured.
func (t TLSConfig) Enabled() bool { return t.CertFile != "" }

type Config struct {
	ServiceName        string
	DB                 postgres.Config
	Kafka              KafkaConfig
	Redis              RedisConfig
	TLS                TLSConfig
	Log                observability.LogConfig
	Trace              observability.TraceConfig
	LockTTL            time.Duration
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	GRPCPort           int
	HTTPPort           int
	GRPCReflection     bool
	ConsumePayments    bool
}

// Validate reports every missing or out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if c.LockTTL <= 0 {
		errs = append(errs, errors.New("LOCK_TTL must be positive"))
	}
	if c.OutboxPollInterval <= 0 {
		errs = append(errs, errors.New("OUTBOX_POLL_INTERVAL must be positive"))
	}
	if c.TLS.CertFile != "" && c.TLS.KeyFile == "" {
		errs = append(errs, errors.New("GRPC_TLS_KEY_FILE is required when GRPC_TLS_CERT_FILE is set"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from the environment. A .env file in the
// working directory, when present, fills variables that are not already set.
func Load() Config {
	_ = godotenv.Load()

	service := getEnv("SERVICE_NAME", "loan-engine")
	return Config{
		ServiceName: service,
		GRPCPort:    getEnvInt("GRPC_PORT", 9087),
		HTTPPort:    getEnvInt("HTTP_PORT", 8087),
		DB: postgres.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "loanspur"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "loanspur_lending"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		},
		Kafka: KafkaConfig{
			Config: kafka.Config{
				Brokers:       getEnvList("KAFKA_BROKERS", "localhost:9092"),
				ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", service),
				ClientID:      service,

				HandlerAttempts: getEnvInt("KAFKA_HANDLER_ATTEMPTS", 5),
				RetryBackoff:    getEnvDuration("KAFKA_RETRY_BACKOFF", 500*time.Millisecond),
			},
			PaymentsTopic: getEnv("KAFKA_PAYMENTS_TOPIC", "lending.payment.recorded"),
			EventsTopic:   getEnv("KAFKA_EVENTS_TOPIC", "lending.loan.events"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		TLS: TLSConfig{
			CertFile:     getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:      getEnv("GRPC_TLS_KEY_FILE", ""),
			ClientCAFile: getEnv("GRPC_TLS_CLIENT_CA_FILE", ""),
		},
		Log: observability.LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Format:  getEnv("LOG_FORMAT", "json"),
			Service: service,
		},
		Trace: observability.TraceConfig{
			ServiceName: service,
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Insecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio: getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1),
		},
		LockTTL:            getEnvDuration("LOCK_TTL", 30*time.Second),
		OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 100),
		GRPCReflection:     getEnvBool("GRPC_REFLECTION", false),
		ConsumePayments:    getEnvBool("KAFKA_CONSUME_PAYMENTS", true),
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
