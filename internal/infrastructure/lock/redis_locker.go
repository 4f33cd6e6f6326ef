package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
)

const keyPrefix = "loan-harmonize"

// RedisLocker serializes harmonization across replicas with a Redis lease.
// A lease outlives a crashed holder by at most its TTL.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ port.LoanLocker = (*RedisLocker)(nil)

// NewRedisLocker builds a locker on rdb. ttl bounds how long one
// harmonization may hold a loan.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, logger: logger}
}

// Lock fails fast with port.ErrLockNotObtained when another holder exists.
func (l *RedisLocker) Lock(ctx context.Context, tenantID, loanID string) (func(), error) {
	key := lockKey(tenantID, loanID)
	lease, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, port.ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("obtain %s: %w", key, err)
	}

	return func() {
		// Release with a fresh context so a cancelled request still frees the lease.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lease.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release loan lock", "key", key, "error", err)
		}
	}, nil
}

func lockKey(tenantID, loanID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, tenantID, loanID)
}
