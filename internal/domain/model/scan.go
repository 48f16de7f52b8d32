package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerguard/riskscan/internal/domain/event"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
	"github.com/ledgerguard/riskscan/pkg/events"
)

// Evidence carries the decoded inputs a scan was scored from.
type Evidence struct {
	Snapshot       *AccountSnapshot
	Flags          *DecodedFlags
	Concentration  *ConcentrationReport
	KnownAccount   *KnownAccount
	AccountAgeDays *int
	HTTPSReachable *bool
	TransferTax    decimal.Decimal
	Manifest       valueobject.ProbeResult
	Domain         valueobject.DomainField
}

// Scan is the aggregate for one risk scan. It lives only for the duration
// of a request.
type Scan struct {
	events.EventCollector

	startedAt  time.Time
	finishedAt time.Time
	mode       valueobject.ScanMode
	subject    string
	currency   string
	result     ScoreResult
	evidence   Evidence
	id         uuid.UUID
	notFound   bool
	completed  bool
}

// NewScan starts a scan of subject, which is an account address or, in
// project mode, a domain.
func NewScan(mode valueobject.ScanMode, subject, currency string, now time.Time) (*Scan, error) {
	if mode.IsZero() {
		return nil, fmt.Errorf("scan mode is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("scan subject is required")
	}
	return &Scan{
		id:        uuid.New(),
		mode:      mode,
		subject:   subject,
		currency:  currency,
		startedAt: now.UTC(),
	}, nil
}

// Complete records the score and evidence and emits ScanCompleted.
func (s *Scan) Complete(result ScoreResult, evidence Evidence, now time.Time) error {
	if s.completed {
		return fmt.Errorf("scan %s already completed", s.id)
	}
	if result.Percent < 0 || result.Percent > 100 {
		return fmt.Errorf("score percent must be between 0 and 100, got %d", result.Percent)
	}
	s.result = result
	s.evidence = evidence
	s.finish(now)
	return nil
}

// MarkNotFound ends the scan with the terminal not-found verdict. A missing
// account is never scored through weighted signals, so nothing else can
// offset it.
func (s *Scan) MarkNotFound(now time.Time) error {
	if s.completed {
		return fmt.Errorf("scan %s already completed", s.id)
	}
	s.notFound = true
	s.result = ScoreResult{Verdict: valueobject.VerdictHighRisk, Percent: 0, Signals: []Signal{}}
	s.finish(now)
	return nil
}

func (s *Scan) finish(now time.Time) {
	s.completed = true
	s.finishedAt = now.UTC()

	keys := make([]string, 0, len(s.result.Signals))
	for _, sig := range s.result.Signals {
		if !sig.Passed {
			keys = append(keys, sig.Key)
		}
	}
	s.Record(event.NewScanCompleted(
		s.id, s.mode.String(), s.subject, s.currency,
		s.result.Verdict.String(), s.result.Percent, s.notFound,
		keys, s.finishedAt,
	))
}

// --- Accessors ---

func (s *Scan) ID() uuid.UUID              { return s.id }
func (s *Scan) Mode() valueobject.ScanMode { return s.mode }
func (s *Scan) Subject() string            { return s.subject }
func (s *Scan) Currency() string           { return s.currency }
func (s *Scan) Result() ScoreResult        { return s.result }
func (s *Scan) Evidence() Evidence         { return s.evidence }
func (s *Scan) NotFound() bool             { return s.notFound }
func (s *Scan) Completed() bool            { return s.completed }
func (s *Scan) StartedAt() time.Time       { return s.startedAt }
func (s *Scan) FinishedAt() time.Time      { return s.finishedAt }
func (s *Scan) Duration() time.Duration    { return s.finishedAt.Sub(s.startedAt) }

// DomainEvents returns all accumulated domain events and clears them.
func (s *Scan) DomainEvents() []events.DomainEvent {
	return s.ClearEvents()
}
