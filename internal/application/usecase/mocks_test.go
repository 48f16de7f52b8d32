package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/port"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
	"github.com/ledgerguard/riskscan/pkg/events"
)

// --- Mock implementations ---

type mockLedger struct {
	session *mockSession
	openErr error
	opens   atomic.Int32
}

func (m *mockLedger) Open(_ context.Context) (port.LedgerSession, error) {
	m.opens.Add(1)
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.session, nil
}

type mockSession struct {
	infoFunc      func(ctx context.Context, account string) (model.AccountSnapshot, error)
	inceptionFunc func(ctx context.Context, account string) (time.Time, error)
	lines         []model.TrustLine
	linesErr      error
	pageSize      int
	infoCalls     atomic.Int32
	closes        atomic.Int32
}

func (m *mockSession) AccountInfo(ctx context.Context, account string) (model.AccountSnapshot, error) {
	m.infoCalls.Add(1)
	return m.infoFunc(ctx, account)
}

func (m *mockSession) AccountLines(_ string) port.LinePager {
	size := m.pageSize
	if size == 0 {
		size = 400
	}
	return &mockPager{lines: m.lines, size: size, err: m.linesErr}
}

func (m *mockSession) AccountInception(ctx context.Context, account string) (time.Time, error) {
	if m.inceptionFunc == nil {
		return time.Time{}, model.ErrTransport
	}
	return m.inceptionFunc(ctx, account)
}

func (m *mockSession) Close() error {
	m.closes.Add(1)
	return nil
}

type mockPager struct {
	err   error
	lines []model.TrustLine
	size  int
	pos   int
}

func (p *mockPager) Next(ctx context.Context) (model.LinePage, bool, error) {
	if p.err != nil {
		return model.LinePage{}, false, p.err
	}
	if err := ctx.Err(); err != nil {
		return model.LinePage{}, false, err
	}
	end := min(p.pos+p.size, len(p.lines))
	page := model.LinePage{Lines: p.lines[p.pos:end]}
	p.pos = end
	return page, p.pos >= len(p.lines), nil
}

func (p *mockPager) Reset() { p.pos = 0 }

type mockProber struct {
	probeFunc func(ctx context.Context, domain string) valueobject.ProbeResult
	reachable bool
	mu        sync.Mutex
	probed    []string
}

func (m *mockProber) Probe(ctx context.Context, domain string) valueobject.ProbeResult {
	m.mu.Lock()
	m.probed = append(m.probed, domain)
	m.mu.Unlock()
	if m.probeFunc != nil {
		return m.probeFunc(ctx, domain)
	}
	return valueobject.ProbeResult{
		Outcome:    valueobject.ProbeFound,
		URL:        "https://" + domain + "/.well-known/xrp-ledger.toml",
		StatusCode: 200,
		Attempts:   1,
	}
}

func (m *mockProber) ReachableHTTPS(_ context.Context, _ string) bool {
	return m.reachable
}

type mockKnownAccounts struct {
	entries map[string]model.KnownAccount
	err     error
}

func (m *mockKnownAccounts) FindByAddress(_ context.Context, address string) (model.KnownAccount, bool, error) {
	if m.err != nil {
		return model.KnownAccount{}, false, m.err
	}
	k, ok := m.entries[address]
	return k, ok, nil
}

type mockPublisher struct {
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
	publishedEvents []events.DomainEvent
}

func (m *mockPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockRecorder struct {
	scans  []string
	errors []string
}

func (m *mockRecorder) RecordScan(_ context.Context, mode, verdict string, _ bool, _ time.Duration) {
	m.scans = append(m.scans, mode+":"+verdict)
}

func (m *mockRecorder) RecordScanError(_ context.Context, mode, kind string) {
	m.errors = append(m.errors, mode+":"+kind)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }
