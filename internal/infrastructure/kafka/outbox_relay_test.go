package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/events"
	pkgkafka "github.com/loanspur/loanspur-nexus-finance-sub006/pkg/kafka"
	"github.com/loanspur/loanspur-nexus-finance-sub006/pkg/testutil"
)

type mockOutboxRepo struct {
	mu        sync.Mutex
	pending   []events.OutboxEntry
	fetchErr  error
	markErr   error
	markedIDs [][]string
}

func (m *mockOutboxRepo) FetchUnpublished(_ context.Context, batchSize int) ([]events.OutboxEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	n := min(batchSize, len(m.pending))
	return m.pending[:n], nil
}

func (m *mockOutboxRepo) MarkPublished(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	m.markedIDs = append(m.markedIDs, ids)
	m.pending = m.pending[len(ids):]
	return nil
}

func (m *mockOutboxRepo) remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

type mockPublisher struct {
	err       error
	published []pkgkafka.Message
	topics    []string
}

func (m *mockPublisher) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.topics = append(m.topics, topic)
	m.published = append(m.published, messages...)
	return nil
}

func outboxEntry(id, eventType string) events.OutboxEntry {
	return events.OutboxEntry{
		ID:            id,
		AggregateID:   testutil.TestLoanID1,
		AggregateType: "Loan",
		EventType:     eventType,
		TenantID:      testutil.TestTenantID,
		Payload:       []byte(`{"event_id":"` + id + `"}`),
	}
}

func TestOutboxRelay_RelayOnce(t *testing.T) {
	repo := &mockOutboxRepo{pending: []events.OutboxEntry{
		outboxEntry("e1", "lending.loan.schedule_regenerated"),
		outboxEntry("e2", "lending.loan.harmonized"),
	}}
	pub := &mockPublisher{}
	relay := NewOutboxRelay(repo, pub, "lending.loan.events", time.Second, 10, testutil.DiscardLogger())

	n, err := relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, pub.published, 2)
	assert.Equal(t, []string{"lending.loan.events"}, pub.topics)
	msg := pub.published[0]
	assert.Equal(t, testutil.TestLoanID1, string(msg.Key))
	assert.Equal(t, "lending.loan.schedule_regenerated", msg.Headers["event_type"])
	assert.Equal(t, "e1", msg.Headers["event_id"])
	assert.Equal(t, testutil.TestTenantID, msg.Headers["tenant_id"])
	assert.Equal(t, [][]string{{"e1", "e2"}}, repo.markedIDs)

	n, err = relay.RelayOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOutboxRelay_PublishFailureLeavesEntriesPending(t *testing.T) {
	repo := &mockOutboxRepo{pending: []events.OutboxEntry{outboxEntry("e1", "lending.loan.harmonized")}}
	pub := &mockPublisher{err: errors.New("leader not available")}
	relay := NewOutboxRelay(repo, pub, "lending.loan.events", time.Second, 10, testutil.DiscardLogger())

	_, err := relay.RelayOnce(context.Background())
	testutil.AssertErrorContains(t, err, "publish 1 events")
	assert.Empty(t, repo.markedIDs)
	assert.Len(t, repo.pending, 1)
}

func TestOutboxRelay_FetchFailure(t *testing.T) {
	repo := &mockOutboxRepo{fetchErr: errors.New("db down")}
	relay := NewOutboxRelay(repo, &mockPublisher{}, "t", time.Second, 10, testutil.DiscardLogger())

	_, err := relay.RelayOnce(context.Background())
	testutil.AssertErrorContains(t, err, "fetch unpublished")
}

func TestOutboxRelay_RunDrainsAndStops(t *testing.T) {
	repo := &mockOutboxRepo{}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		repo.pending = append(repo.pending, outboxEntry(id, "lending.loan.harmonized"))
	}
	pub := &mockPublisher{}
	relay := NewOutboxRelay(repo, pub, "t", time.Hour, 2, testutil.DiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool { return repo.remaining() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Len(t, pub.published, 5)
	assert.Len(t, repo.markedIDs, 3)
}
