package events

import (
	"encoding/json"
	"testing"
	"time"
)

type scheduleRebuilt struct {
	BaseEvent
	Installments int `json:"installments"`
}

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("lending.loan.harmonized", "loan-123", "Loan", "tenant-456")
	after := time.Now().UTC()

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}
	if event.EventType() != "lending.loan.harmonized" {
		t.Errorf("expected event type %q, got %q", "lending.loan.harmonized", event.EventType())
	}
	if event.AggregateID() != "loan-123" {
		t.Errorf("expected aggregate ID %q, got %q", "loan-123", event.AggregateID())
	}
	if event.AggregateType() != "Loan" {
		t.Errorf("expected aggregate type %q, got %q", "Loan", event.AggregateType())
	}
	if event.TenantID() != "tenant-456" {
		t.Errorf("expected tenant ID %q, got %q", "tenant-456", event.TenantID())
	}
	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
	var _ DomainEvent = scheduleRebuilt{}
}

func TestNewOutboxEntry(t *testing.T) {
	event := scheduleRebuilt{
		BaseEvent:    NewBaseEvent("lending.schedule.regenerated", "loan-789", "Loan", "tenant-012"),
		Installments: 12,
	}

	entry, err := NewOutboxEntry(event)
	if err != nil {
		t.Fatalf("NewOutboxEntry: %v", err)
	}
	if entry.ID != event.EventID() {
		t.Errorf("expected outbox ID %v, got %v", event.EventID(), entry.ID)
	}
	if entry.TenantID != "tenant-012" {
		t.Errorf("expected tenant %q, got %q", "tenant-012", entry.TenantID)
	}
	if entry.PublishedAt != nil {
		t.Error("expected PublishedAt to be nil")
	}

	var decoded map[string]any
	if err := json.Unmarshal(entry.Payload, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded["event_type"] != "lending.schedule.regenerated" {
		t.Errorf("payload event_type = %v", decoded["event_type"])
	}
	if decoded["installments"] != float64(12) {
		t.Errorf("payload installments = %v", decoded["installments"])
	}
}
