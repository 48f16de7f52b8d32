package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerguard/riskscan/pkg/events"
)

const (
	// EventTypeScanCompleted is emitted when a scan reaches a verdict.
	EventTypeScanCompleted = "riskscan.scan.completed"

	aggregateTypeScan = "Scan"
)

// ScanCompletedPayload is the JSON body of a ScanCompleted event.
type ScanCompletedPayload struct {
	CompletedAt   time.Time `json:"completed_at"`
	Mode          string    `json:"mode"`
	Subject       string    `json:"subject"`
	Currency      string    `json:"currency,omitempty"`
	Verdict       string    `json:"verdict"`
	FailedSignals []string  `json:"failed_signals"`
	ScanID        uuid.UUID `json:"scan_id"`
	Percent       int       `json:"percent"`
	NotFound      bool      `json:"not_found"`
}

// ScanCompleted is published after every finished scan, including the
// terminal not-found case.
type ScanCompleted struct {
	events.BaseEvent
	Data ScanCompletedPayload
}

// NewScanCompleted builds the event for a finished scan.
func NewScanCompleted(
	scanID uuid.UUID,
	mode, subject, currency, verdict string,
	percent int,
	notFound bool,
	failedSignals []string,
	completedAt time.Time,
) ScanCompleted {
	data := ScanCompletedPayload{
		ScanID:        scanID,
		Mode:          mode,
		Subject:       subject,
		Currency:      currency,
		Verdict:       verdict,
		Percent:       percent,
		NotFound:      notFound,
		FailedSignals: failedSignals,
		CompletedAt:   completedAt,
	}
	payload, _ := json.Marshal(data)
	return ScanCompleted{
		BaseEvent: events.NewBaseEvent(events.Meta{
			Type:          EventTypeScanCompleted,
			AggregateID:   scanID,
			AggregateType: aggregateTypeScan,
			Subject:       subject,
			OccurredAt:    completedAt,
		}, payload),
		Data:      data,
	}
}
