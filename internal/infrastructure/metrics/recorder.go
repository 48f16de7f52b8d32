// Package metrics records scan and ledger measurements as OpenTelemetry
// instruments.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ledgerguard/riskscan/internal/domain/port"
	"github.com/ledgerguard/riskscan/internal/infrastructure/xrpl"
)

const meterName = "github.com/ledgerguard/riskscan"

// Recorder implements port.ScanRecorder and xrpl.RequestObserver.
type Recorder struct {
	scans          metric.Int64Counter
	scanErrors     metric.Int64Counter
	scanDuration   metric.Float64Histogram
	ledgerRequests metric.Int64Counter
	ledgerDuration metric.Float64Histogram
}

var (
	_ port.ScanRecorder    = (*Recorder)(nil)
	_ xrpl.RequestObserver = (*Recorder)(nil)
)

// NewRecorder creates the instruments on provider's meter.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)
	r := &Recorder{}

	var err error
	if r.scans, err = meter.Int64Counter("riskscan_scans",
		metric.WithDescription("Completed scans by mode and verdict."),
	); err != nil {
		return nil, fmt.Errorf("failed to create scans counter: %w", err)
	}
	if r.scanErrors, err = meter.Int64Counter("riskscan_scan_errors",
		metric.WithDescription("Scans that ended in an error, by mode and kind."),
	); err != nil {
		return nil, fmt.Errorf("failed to create scan errors counter: %w", err)
	}
	if r.scanDuration, err = meter.Float64Histogram("riskscan_scan_duration",
		metric.WithDescription("Wall time of completed scans."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create scan duration histogram: %w", err)
	}
	if r.ledgerRequests, err = meter.Int64Counter("riskscan_ledger_requests",
		metric.WithDescription("Ledger node commands by command and outcome."),
	); err != nil {
		return nil, fmt.Errorf("failed to create ledger requests counter: %w", err)
	}
	if r.ledgerDuration, err = meter.Float64Histogram("riskscan_ledger_request_duration",
		metric.WithDescription("Round trip time of ledger node commands."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create ledger duration histogram: %w", err)
	}
	return r, nil
}

// RecordScan counts a completed scan and observes its duration.
func (r *Recorder) RecordScan(ctx context.Context, mode, verdict string, notFound bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("verdict", verdict),
		attribute.Bool("not_found", notFound),
	)
	r.scans.Add(ctx, 1, attrs)
	r.scanDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("mode", mode)))
}

// RecordScanError counts a scan that returned an error.
func (r *Recorder) RecordScanError(ctx context.Context, mode, kind string) {
	r.scanErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("kind", kind),
	))
}

// RecordLedgerRequest counts one ledger command.
func (r *Recorder) RecordLedgerRequest(ctx context.Context, command, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("outcome", outcome),
	)
	r.ledgerRequests.Add(ctx, 1, attrs)
	r.ledgerDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("command", command)))
}
