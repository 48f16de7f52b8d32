package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerguard/riskscan/internal/application/dto"
	"github.com/ledgerguard/riskscan/internal/application/usecase"
	"github.com/ledgerguard/riskscan/internal/domain/event"
	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/service"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
	"github.com/ledgerguard/riskscan/pkg/events"
)

const issuerAddr = "rIssuerXXXXXXXXXXXXXXXXXXXXXXXXXX"

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func issuerSnapshot() model.AccountSnapshot {
	return model.AccountSnapshot{
		Account:      issuerAddr,
		Balance:      decimal.NewFromInt(25_000_000),
		Flags:        service.LsfDisableMaster | service.LsfNoFreeze,
		Domain:       valueobject.EncodeDomain("issuer.example"),
		TransferRate: 1_005_000_000,
		Sequence:     7,
	}
}

func holderLines(n int) []model.TrustLine {
	lines := make([]model.TrustLine, n)
	for i := range lines {
		lines[i] = model.TrustLine{
			Account:  fmt.Sprintf("rHolder%03d", i),
			Currency: "USD",
			Balance:  fmt.Sprintf("-%d", i+1),
		}
	}
	return lines
}

type fixture struct {
	ledger    *mockLedger
	session   *mockSession
	prober    *mockProber
	known     *mockKnownAccounts
	publisher *mockPublisher
	recorder  *mockRecorder
}

func newFixture(snapshot model.AccountSnapshot, lines []model.TrustLine) *fixture {
	sess := &mockSession{
		infoFunc: func(_ context.Context, _ string) (model.AccountSnapshot, error) {
			return snapshot, nil
		},
		inceptionFunc: func(_ context.Context, _ string) (time.Time, error) {
			return now.AddDate(0, 0, -400), nil
		},
		lines: lines,
	}
	return &fixture{
		ledger:    &mockLedger{session: sess},
		session:   sess,
		prober:    &mockProber{reachable: true},
		known:     &mockKnownAccounts{},
		publisher: &mockPublisher{},
		recorder:  &mockRecorder{},
	}
}

func (f *fixture) useCase() *usecase.RunScan {
	return usecase.NewRunScan(usecase.RunScanDeps{
		Ledger:        f.ledger,
		Prober:        f.prober,
		KnownAccounts: f.known,
		Publisher:     f.publisher,
		Recorder:      f.recorder,
		Clock:         fixedClock{now: now},
	})
}

func failedKeys(resp dto.ScanResponse) []string {
	var out []string
	for _, s := range resp.Signals {
		if !s.Passed {
			out = append(out, s.Key)
		}
	}
	return out
}

func TestRunScan_Issuer(t *testing.T) {
	t.Run("healthy issuer scores 100", func(t *testing.T) {
		f := newFixture(issuerSnapshot(), holderLines(42))

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
			Mode: "issuer", Account: issuerAddr, Currency: "usd",
		})

		require.NoError(t, err)
		assert.Equal(t, 100, resp.Percent)
		assert.Equal(t, "LOW_RISK", resp.Verdict)
		assert.Equal(t, "green", resp.Color)
		assert.Len(t, resp.Signals, 7)
		assert.Empty(t, failedKeys(resp))
		assert.False(t, resp.NotFound)

		require.NotNil(t, resp.Details)
		require.NotNil(t, resp.Details.Concentration)
		assert.Equal(t, 42, resp.Details.Concentration.HolderCount)
		assert.Equal(t, "0.50", resp.Details.TransferTaxPercent)
		assert.Equal(t, "issuer.example", resp.Details.Domain)
		require.NotNil(t, resp.Details.Manifest)
		assert.Equal(t, "found", resp.Details.Manifest.Outcome)

		assert.Equal(t, int32(1), f.ledger.opens.Load())
		assert.Equal(t, int32(1), f.session.infoCalls.Load())
		assert.Equal(t, int32(1), f.session.closes.Load())
		assert.Equal(t, []string{"issuer.example"}, f.prober.probed)
	})

	t.Run("global freeze and missing manifest is medium risk", func(t *testing.T) {
		snap := issuerSnapshot()
		snap.Flags |= service.LsfGlobalFreeze
		f := newFixture(snap, holderLines(42))
		f.prober.probeFunc = func(_ context.Context, _ string) valueobject.ProbeResult {
			return valueobject.ProbeResult{Outcome: valueobject.ProbeNotFound, StatusCode: 404, Attempts: 2}
		}

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
			Mode: "issuer", Account: issuerAddr, Currency: "USD",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{service.SignalManifestFound, service.SignalGlobalFreezeOff}, failedKeys(resp))
		assert.Equal(t, 67, resp.Percent)
		assert.Equal(t, "MEDIUM_RISK", resp.Verdict)
	})

	t.Run("no domain skips the probe", func(t *testing.T) {
		snap := issuerSnapshot()
		snap.Domain = ""
		f := newFixture(snap, holderLines(42))

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
			Mode: "issuer", Account: issuerAddr, Currency: "USD",
		})

		require.NoError(t, err)
		assert.Empty(t, f.prober.probed)
		assert.Equal(t, []string{service.SignalDomainPresent, service.SignalManifestFound}, failedKeys(resp))
		assert.Nil(t, resp.Details.Manifest)
	})

	t.Run("not found is terminal", func(t *testing.T) {
		f := newFixture(model.AccountSnapshot{}, nil)
		f.session.infoFunc = func(_ context.Context, _ string) (model.AccountSnapshot, error) {
			return model.AccountSnapshot{}, model.ErrAccountNotFound
		}
		f.known.entries = map[string]model.KnownAccount{
			issuerAddr: {Address: issuerAddr, Status: model.KnownAccountTrusted},
		}

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
			Mode: "issuer", Account: issuerAddr, Currency: "USD",
		})

		require.NoError(t, err)
		assert.True(t, resp.NotFound)
		assert.Equal(t, 0, resp.Percent)
		assert.Equal(t, "HIGH_RISK", resp.Verdict)
		assert.Equal(t, dto.NotFoundMessage, resp.Message)
		assert.Empty(t, resp.Signals)
		assert.Equal(t, int32(1), f.session.closes.Load())
		require.Len(t, f.publisher.publishedEvents, 1)
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		f := newFixture(issuerSnapshot(), nil)
		f.session.linesErr = fmt.Errorf("read frame: %w", model.ErrTransport)

		_, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
			Mode: "issuer", Account: issuerAddr, Currency: "USD",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrTransport)
		assert.Contains(t, err.Error(), "failed to aggregate holders")
		assert.Equal(t, int32(1), f.session.closes.Load())
		assert.Equal(t, []string{"issuer:transport"}, f.recorder.errors)
		assert.Empty(t, f.publisher.publishedEvents)
	})

	t.Run("open failure", func(t *testing.T) {
		f := newFixture(issuerSnapshot(), nil)
		f.ledger.openErr = fmt.Errorf("dial: %w", model.ErrTransport)

		_, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
			Mode: "issuer", Account: issuerAddr, Currency: "USD",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrTransport)
		assert.Contains(t, err.Error(), "failed to open ledger session")
	})
}

func TestRunScan_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ScanRequest
		wantErr string
	}{
		{name: "unknown mode", req: dto.ScanRequest{Mode: "nft", Account: issuerAddr}, wantErr: "invalid scan mode"},
		{name: "blank account", req: dto.ScanRequest{Mode: "wallet", Account: "  "}, wantErr: "account is required"},
		{name: "issuer without currency", req: dto.ScanRequest{Mode: "issuer", Account: issuerAddr}, wantErr: "currency is required"},
		{name: "project without domain", req: dto.ScanRequest{Mode: "project"}, wantErr: "domain is required"},
		{name: "project with bare suffix", req: dto.ScanRequest{Mode: "project", Domain: "com"}, wantErr: "invalid domain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(issuerSnapshot(), nil)

			_, err := f.useCase().Execute(context.Background(), tt.req)

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, int32(0), f.ledger.opens.Load(), "no ledger contact on invalid input")
		})
	}
}

func TestRunScan_Wallet(t *testing.T) {
	t.Run("established wallet", func(t *testing.T) {
		f := newFixture(model.AccountSnapshot{Account: "rWallet", OwnerCount: 2}, nil)

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{Mode: "wallet", Account: "rWallet"})

		require.NoError(t, err)
		assert.Equal(t, 100, resp.Percent)
		assert.Len(t, resp.Signals, 5)
		require.NotNil(t, resp.Details.AccountAgeDays)
		assert.Equal(t, 400, *resp.Details.AccountAgeDays)
		assert.Nil(t, resp.Details.Concentration)
		assert.Empty(t, resp.Details.TransferTaxPercent)
		assert.Empty(t, f.prober.probed)
		assert.Equal(t, int32(1), f.session.closes.Load())
	})

	t.Run("age lookup failure is advisory", func(t *testing.T) {
		f := newFixture(model.AccountSnapshot{Account: "rWallet"}, nil)
		f.session.inceptionFunc = func(_ context.Context, _ string) (time.Time, error) {
			return time.Time{}, errors.New("history unavailable")
		}

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{Mode: "wallet", Account: "rWallet"})

		require.NoError(t, err)
		assert.Equal(t, []string{service.SignalAccountAge}, failedKeys(resp))
		assert.Equal(t, "account age unavailable", resp.Signals[0].Detail)
		assert.Equal(t, 71, resp.Percent)
	})

	t.Run("trusted known account adds a signal", func(t *testing.T) {
		f := newFixture(model.AccountSnapshot{Account: "rDonate"}, nil)
		f.known.entries = map[string]model.KnownAccount{
			"rDonate": {Address: "rDonate", Label: "donation wallet", Status: model.KnownAccountTrusted},
		}

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{Mode: "address", Account: "rDonate"})

		require.NoError(t, err)
		require.Len(t, resp.Signals, 6)
		last := resp.Signals[5]
		assert.Equal(t, service.SignalKnownAccount, last.Key)
		assert.True(t, last.Passed)
		require.NotNil(t, resp.Details.KnownAccount)
		assert.Equal(t, "trusted", resp.Details.KnownAccount.Status)
	})

	t.Run("registry failure is ignored", func(t *testing.T) {
		f := newFixture(model.AccountSnapshot{Account: "rWallet"}, nil)
		f.known.err = errors.New("connection refused")

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{Mode: "wallet", Account: "rWallet"})

		require.NoError(t, err)
		assert.Len(t, resp.Signals, 5)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(model.AccountSnapshot{}, nil)
		f.session.infoFunc = func(_ context.Context, _ string) (model.AccountSnapshot, error) {
			return model.AccountSnapshot{}, fmt.Errorf("account_info: %w", model.ErrAccountNotFound)
		}

		resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{Mode: "wallet", Account: "rGone"})

		require.NoError(t, err)
		assert.True(t, resp.NotFound)
		assert.Equal(t, "red", resp.Color)
		assert.Equal(t, []string{"wallet:HIGH_RISK"}, f.recorder.scans)
	})
}

func TestRunScan_Project(t *testing.T) {
	f := newFixture(model.AccountSnapshot{}, nil)
	f.prober.probeFunc = func(_ context.Context, _ string) valueobject.ProbeResult {
		return valueobject.ProbeResult{Outcome: valueobject.ProbeError, Reason: "tls handshake timeout", Attempts: 2}
	}

	resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
		Mode: "project", Domain: "https://Example.COM/about",
	})

	require.NoError(t, err)
	assert.Equal(t, "example.com", resp.Subject)
	assert.Equal(t, []string{"example.com"}, f.prober.probed)
	assert.Equal(t, []string{service.SignalManifestFound}, failedKeys(resp))
	assert.Equal(t, 33, resp.Percent)
	assert.Equal(t, "HIGH_RISK", resp.Verdict)
	require.NotNil(t, resp.Details.HTTPSReachable)
	assert.True(t, *resp.Details.HTTPSReachable)
	assert.Equal(t, "probe_error", resp.Details.Manifest.Outcome)
	assert.Equal(t, int32(0), f.ledger.opens.Load())
}

func TestRunScan_PublishFailureDoesNotFailScan(t *testing.T) {
	f := newFixture(issuerSnapshot(), holderLines(42))
	f.publisher.publishFunc = func(_ context.Context, _ ...events.DomainEvent) error {
		return errors.New("broker down")
	}

	resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
		Mode: "issuer", Account: issuerAddr, Currency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, 100, resp.Percent)
}

func TestRunScan_PublishesScanCompleted(t *testing.T) {
	f := newFixture(issuerSnapshot(), holderLines(3))

	resp, err := f.useCase().Execute(context.Background(), dto.ScanRequest{
		Mode: "token", Account: issuerAddr, Currency: "USD",
	})

	require.NoError(t, err)
	require.Len(t, f.publisher.publishedEvents, 1)
	evt, ok := f.publisher.publishedEvents[0].(event.ScanCompleted)
	require.True(t, ok)
	assert.Equal(t, resp.ScanID, evt.AggregateID())
	assert.Equal(t, issuerAddr, evt.Subject())
	assert.Equal(t, []string{service.SignalHolderCount}, evt.Data.FailedSignals)
	assert.Equal(t, "issuer", evt.Data.Mode)
}
