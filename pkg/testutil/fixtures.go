// Package testutil holds container helpers, fixtures and assertions shared
// by the engine's tests.
package testutil

import (
	"io"
	"log/slog"
	"time"
)

// Fixed identifiers for deterministic tests.
const (
	TestTenantID  = "00000000-0000-0000-0000-000000000010"
	TestProductID = "00000000-0000-0000-0000-000000000030"
	TestLoanID1   = "00000000-0000-0000-0000-000000000101"
	TestLoanID2   = "00000000-0000-0000-0000-000000000102"
)

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
