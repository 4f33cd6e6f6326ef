package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/model"
	"github.com/loanspur/loanspur-nexus-finance-sub006/internal/domain/port"
)

const instrumentationName = "github.com/loanspur/loanspur-nexus-finance-sub006/internal/application/usecase"

var tracer = otel.Tracer(instrumentationName)

// HarmonizationMetrics holds the instruments recorded per harmonization.
type HarmonizationMetrics struct {
	runs        metric.Int64Counter
	regenerated metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewHarmonizationMetrics creates the instruments on meter.
func NewHarmonizationMetrics(meter metric.Meter) (*HarmonizationMetrics, error) {
	runs, err := meter.Int64Counter("loanengine.harmonizations",
		metric.WithDescription("Harmonization runs by outcome."))
	if err != nil {
		return nil, fmt.Errorf("harmonizations counter: %w", err)
	}
	regenerated, err := meter.Int64Counter("loanengine.schedules_regenerated",
		metric.WithDescription("Schedules discarded and rebuilt."))
	if err != nil {
		return nil, fmt.Errorf("schedules_regenerated counter: %w", err)
	}
	duration, err := meter.Float64Histogram("loanengine.harmonization.duration",
		metric.WithDescription("Harmonization latency."),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("harmonization duration histogram: %w", err)
	}
	return &HarmonizationMetrics{runs: runs, regenerated: regenerated, duration: duration}, nil
}

func (m *HarmonizationMetrics) record(ctx context.Context, res model.HarmonizationResult, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := attribute.String("outcome", harmonizationOutcome(res, err))
	m.runs.Add(ctx, 1, metric.WithAttributes(outcome))
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, metric.WithAttributes(outcome))
	if err == nil && res.Regenerated {
		m.regenerated.Add(ctx, 1)
	}
}

func harmonizationOutcome(res model.HarmonizationResult, err error) string {
	switch {
	case err == nil && res.Regenerated:
		return "regenerated"
	case err == nil:
		return "consistent"
	case errors.Is(err, port.ErrLockNotObtained):
		return "locked"
	case errors.Is(err, port.ErrLoanNotFound):
		return "not_found"
	case errors.Is(err, model.ErrInvalidTerms):
		return "invalid_terms"
	default:
		return "error"
	}
}
