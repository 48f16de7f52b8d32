package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerguard/riskscan/pkg/events"
	pkgkafka "github.com/ledgerguard/riskscan/pkg/kafka"
)

// Header keys set on every published message.
const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderSubject       = "subject"
)

// MessageWriter is satisfied by *pkgkafka.Producer.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Envelope is the JSON value written for each domain event.
type Envelope struct {
	OccurredAt    time.Time       `json:"occurred_at"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	Subject       string          `json:"subject,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
}

// Publisher implements port.EventPublisher using Kafka. Messages are keyed
// by events.PartitionKey, so scans of one account or domain stay ordered.
type Publisher struct {
	writer MessageWriter
	logger *slog.Logger
	topic  string
}

// NewPublisher creates a new Kafka event publisher.
func NewPublisher(writer MessageWriter, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// Publish sends domain events to Kafka in one batch.
func (p *Publisher) Publish(ctx context.Context, domainEvents ...events.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(domainEvents))
	for _, evt := range domainEvents {
		eventType := evt.EventType()

		value, err := json.Marshal(Envelope{
			EventID:       evt.EventID(),
			EventType:     eventType,
			AggregateID:   evt.AggregateID(),
			AggregateType: evt.AggregateType(),
			Subject:       evt.Subject(),
			OccurredAt:    evt.OccurredAt(),
			Payload:       payloadOrNull(evt.Payload()),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(value)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(events.PartitionKey(evt)),
			Value: value,
			Headers: map[string]string{
				HeaderEventType:     eventType,
				HeaderAggregateType: evt.AggregateType(),
				HeaderSubject:       evt.Subject(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.writer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}

func payloadOrNull(b []byte) json.RawMessage {
	if len(b) == 0 || !json.Valid(b) {
		return json.RawMessage("null")
	}
	return b
}
