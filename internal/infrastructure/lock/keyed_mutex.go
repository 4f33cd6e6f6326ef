package lock

import (
	"context"
	"sync"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
)

// KeyedMutex is the single-process LoanLocker used when no Redis address is
// configured and by the batch CLI.
type KeyedMutex struct {
	mu   sync.Mutex
	held map[string]struct{}
}

var _ port.LoanLocker = (*KeyedMutex)(nil)

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{held: make(map[string]struct{})}
}

// Lock fails fast with port.ErrLockNotObtained when the loan is held.
func (m *KeyedMutex) Lock(ctx context.Context, tenantID, loanID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := lockKey(tenantID, loanID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.held[key]; busy {
		return nil, port.ErrLockNotObtained
	}
	m.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}, nil
}
