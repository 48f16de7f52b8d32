// Package events defines the domain event contract shared by aggregates and
// publishers.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by every event an aggregate records.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	// Subject names the ledger account or web domain the event is about.
	Subject() string
	OccurredAt() time.Time
	Payload() []byte
}

// Meta describes an event apart from its payload.
type Meta struct {
	OccurredAt    time.Time
	Type          string
	AggregateType string
	Subject       string
	AggregateID   uuid.UUID
}

// BaseEvent is embedded by concrete events.
type BaseEvent struct {
	meta    Meta
	payload []byte
	id      uuid.UUID
}

// NewBaseEvent stamps meta with a fresh event ID. A zero OccurredAt is
// replaced by the current UTC time.
func NewBaseEvent(meta Meta, payload []byte) BaseEvent {
	if meta.OccurredAt.IsZero() {
		meta.OccurredAt = time.Now()
	}
	meta.OccurredAt = meta.OccurredAt.UTC()
	return BaseEvent{meta: meta, payload: payload, id: uuid.New()}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.meta.Type }
func (e BaseEvent) AggregateID() uuid.UUID { return e.meta.AggregateID }
func (e BaseEvent) AggregateType() string  { return e.meta.AggregateType }
func (e BaseEvent) Subject() string        { return e.meta.Subject }
func (e BaseEvent) OccurredAt() time.Time  { return e.meta.OccurredAt }
func (e BaseEvent) Payload() []byte        { return e.payload }

// PartitionKey returns the key that keeps events about one subject in
// order on a partitioned log. Events without a subject fall back to their
// aggregate ID.
func PartitionKey(e DomainEvent) string {
	if s := e.Subject(); s != "" {
		return s
	}
	return e.AggregateID().String()
}
