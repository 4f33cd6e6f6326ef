package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
	pgpkg "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/postgres"
)

// Transactor implements port.Transactor with read-committed transactions.
type Transactor struct {
	db pgpkg.TxStarter
}

var _ port.Transactor = (*Transactor)(nil)

// NewTransactor returns a Transactor over db, normally a *pgxpool.Pool.
func NewTransactor(db pgpkg.TxStarter) *Transactor {
	return &Transactor{db: db}
}

// WithinTx hands fn a LoanStore bound to a fresh transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, store port.LoanStore) error) error {
	return pgpkg.WithTransaction(ctx, t.db, func(tx pgx.Tx) error {
		return fn(ctx, NewLoanStore(tx))
	})
}
