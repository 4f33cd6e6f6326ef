package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/infrastructure/config"
)

// New returns a RedisLocker when cfg names a Redis address and an in-process
// KeyedMutex otherwise. The returned close function releases the Redis client.
func New(ctx context.Context, cfg config.RedisConfig, ttl time.Duration, logger *slog.Logger) (port.LoanLocker, func() error, error) {
	if cfg.Address == "" {
		logger.Warn("REDIS_ADDRESS not set, loan locks are process-local")
		return NewKeyedMutex(), func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Address, err)
	}
	logger.Info("connected to redis", "addr", cfg.Address)
	return NewRedisLocker(rdb, ttl, logger), rdb.Close, nil
}
