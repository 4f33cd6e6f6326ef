package postgres

import (
	"context"
	"fmt"

	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/events"
	pgpkg "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository.
type OutboxRepo struct {
	q pgpkg.Querier
}

var _ events.OutboxRepository = (*OutboxRepo)(nil)

func NewOutboxRepo(q pgpkg.Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

// FetchUnpublished returns up to batchSize entries, oldest first.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	query := `
		SELECT id::text, aggregate_id, aggregate_type, event_type, tenant_id, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
	`
	rows, err := r.q.Query(ctx, query, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.TenantID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE outbox SET published_at = now() WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
