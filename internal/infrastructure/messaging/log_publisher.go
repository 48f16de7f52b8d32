// Package messaging holds event publishers that do not need a broker.
package messaging

import (
	"context"
	"log/slog"

	"github.com/ledgerguard/riskscan/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging each event. It is
// used when no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs each event at info level. It never fails.
func (p *LogPublisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	for _, evt := range domainEvents {
		p.logger.InfoContext(ctx, "domain event",
			slog.String("event_type", evt.EventType()),
			slog.String("event_id", evt.EventID().String()),
			slog.String("aggregate_id", evt.AggregateID().String()),
			slog.String("subject", evt.Subject()),
			slog.Int("payload_size", len(evt.Payload())),
		)
		p.logger.DebugContext(ctx, "event payload",
			slog.String("event_type", evt.EventType()),
			slog.String("payload", string(evt.Payload())),
		)
	}
	return nil
}
