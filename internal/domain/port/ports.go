package port

import (
	"context"
	"time"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
	"github.com/ledgerguard/riskscan/pkg/events"
)

// ManifestProber checks a domain for the well-known ledger manifest.
// Probe failures are reported in the result, never as errors.
type ManifestProber interface {
	Probe(ctx context.Context, domain string) valueobject.ProbeResult
	ReachableHTTPS(ctx context.Context, domain string) bool
}

// KnownAccountRepository looks up curated registry entries.
type KnownAccountRepository interface {
	// FindByAddress returns found=false when the address is not listed.
	FindByAddress(ctx context.Context, address string) (account model.KnownAccount, found bool, err error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}

// ScanRecorder receives per-scan measurements.
type ScanRecorder interface {
	RecordScan(ctx context.Context, mode, verdict string, notFound bool, elapsed time.Duration)
	RecordScanError(ctx context.Context, mode, kind string)
}

// Clock abstracts wall-clock time for account-age derivation.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real Clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }
