package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerguard/riskscan/internal/application/dto"
	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/port"
	"github.com/ledgerguard/riskscan/internal/domain/service"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

// RunScanDeps groups the collaborators of RunScan. KnownAccounts and
// Recorder may be nil.
type RunScanDeps struct {
	Ledger        port.LedgerGateway
	Prober        port.ManifestProber
	KnownAccounts port.KnownAccountRepository
	Publisher     port.EventPublisher
	Recorder      port.ScanRecorder
	Clock         port.Clock
	Aggregator    *service.ConcentrationAggregator
	Scorer        *service.Scorer
	Logger        *slog.Logger
}

// RunScan is the use case for scoring an issuer, wallet or project domain.
type RunScan struct {
	ledger     port.LedgerGateway
	prober     port.ManifestProber
	known      port.KnownAccountRepository
	publisher  port.EventPublisher
	recorder   port.ScanRecorder
	clock      port.Clock
	aggregator *service.ConcentrationAggregator
	scorer     *service.Scorer
	logger     *slog.Logger
}

// NewRunScan creates a new RunScan use case.
func NewRunScan(deps RunScanDeps) *RunScan {
	uc := &RunScan{
		ledger:     deps.Ledger,
		prober:     deps.Prober,
		known:      deps.KnownAccounts,
		publisher:  deps.Publisher,
		recorder:   deps.Recorder,
		clock:      deps.Clock,
		aggregator: deps.Aggregator,
		scorer:     deps.Scorer,
		logger:     deps.Logger,
	}
	if uc.clock == nil {
		uc.clock = port.SystemClock{}
	}
	if uc.logger == nil {
		uc.logger = slog.Default()
	}
	if uc.aggregator == nil {
		uc.aggregator = service.NewConcentrationAggregator(uc.logger)
	}
	if uc.scorer == nil {
		uc.scorer = service.NewScorer()
	}
	return uc
}

// Execute validates the request, gathers evidence, scores it and publishes
// ScanCompleted. A missing account is a terminal high-risk verdict, not an
// error.
func (uc *RunScan) Execute(ctx context.Context, req dto.ScanRequest) (dto.ScanResponse, error) {
	target, err := validateScan(req)
	if err != nil {
		uc.recordError(ctx, req.Mode, "validation")
		return dto.ScanResponse{}, err
	}

	scan, err := model.NewScan(target.mode, target.subject, target.currency, uc.clock.Now())
	if err != nil {
		return dto.ScanResponse{}, fmt.Errorf("failed to create scan: %w", err)
	}

	signals, evidence, err := uc.collect(ctx, target)
	switch {
	case errors.Is(err, model.ErrAccountNotFound):
		if err := scan.MarkNotFound(uc.clock.Now()); err != nil {
			return dto.ScanResponse{}, fmt.Errorf("failed to finish scan: %w", err)
		}
	case err != nil:
		uc.recordError(ctx, target.mode.String(), errorKind(err))
		return dto.ScanResponse{}, err
	default:
		if err := scan.Complete(uc.scorer.Score(signals), evidence, uc.clock.Now()); err != nil {
			return dto.ScanResponse{}, fmt.Errorf("failed to finish scan: %w", err)
		}
	}

	uc.publish(ctx, scan)
	if uc.recorder != nil {
		uc.recorder.RecordScan(ctx, scan.Mode().String(), scan.Result().Verdict.String(), scan.NotFound(), scan.Duration())
	}

	uc.logger.InfoContext(ctx, "scan completed",
		slog.String("scan_id", scan.ID().String()),
		slog.String("mode", scan.Mode().String()),
		slog.String("subject", scan.Subject()),
		slog.String("verdict", scan.Result().Verdict.String()),
		slog.Int("percent", scan.Result().Percent),
		slog.Bool("not_found", scan.NotFound()),
		slog.Duration("elapsed", scan.Duration()),
	)
	return dto.FromScan(scan), nil
}

func (uc *RunScan) collect(ctx context.Context, t scanTarget) ([]model.Signal, model.Evidence, error) {
	switch t.mode {
	case valueobject.ScanModeIssuer:
		return uc.scanIssuer(ctx, t)
	case valueobject.ScanModeWallet:
		return uc.scanWallet(ctx, t)
	default:
		return uc.scanProject(ctx, t)
	}
}

func (uc *RunScan) scanIssuer(ctx context.Context, t scanTarget) ([]model.Signal, model.Evidence, error) {
	sess, err := uc.ledger.Open(ctx)
	if err != nil {
		return nil, model.Evidence{}, fmt.Errorf("failed to open ledger session: %w", err)
	}
	defer uc.closeSession(ctx, sess)

	var (
		snapshot model.AccountSnapshot
		domain   valueobject.DomainField
		manifest valueobject.ProbeResult
		report   model.ConcentrationReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := sess.AccountInfo(gctx, t.subject)
		if err != nil {
			return fmt.Errorf("failed to fetch account info: %w", err)
		}
		snapshot = s
		domain = valueobject.DecodeDomain(s.Domain)
		if domain.Resolved() {
			manifest = uc.probe(gctx, domain.Name())
		}
		return nil
	})
	g.Go(func() error {
		r, err := uc.aggregator.Aggregate(gctx, t.subject, sess.AccountLines(t.subject), t.currency, t.topN)
		if err != nil {
			return fmt.Errorf("failed to aggregate holders: %w", err)
		}
		report = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, model.Evidence{}, err
	}

	flags := service.DecodeFlags(snapshot.Flags)
	tax := service.TransferTaxPercent(snapshot.TransferRate)
	signals := service.IssuerSignals(service.IssuerInputs{
		Flags:         flags,
		Domain:        domain,
		Manifest:      manifest,
		TransferTax:   tax,
		Concentration: report,
	})

	evidence := model.Evidence{
		Snapshot:      &snapshot,
		Flags:         &flags,
		Concentration: &report,
		TransferTax:   tax,
		Manifest:      manifest,
		Domain:        domain,
	}
	signals = uc.applyKnownAccount(ctx, t.subject, signals, &evidence)
	return signals, evidence, nil
}

func (uc *RunScan) scanWallet(ctx context.Context, t scanTarget) ([]model.Signal, model.Evidence, error) {
	sess, err := uc.ledger.Open(ctx)
	if err != nil {
		return nil, model.Evidence{}, fmt.Errorf("failed to open ledger session: %w", err)
	}
	defer uc.closeSession(ctx, sess)

	snapshot, err := sess.AccountInfo(ctx, t.subject)
	if err != nil {
		return nil, model.Evidence{}, fmt.Errorf("failed to fetch account info: %w", err)
	}

	var age *int
	inception, err := sess.AccountInception(ctx, t.subject)
	if err != nil {
		uc.logger.WarnContext(ctx, "account age unavailable",
			slog.String("account", t.subject),
			slog.String("error", err.Error()),
		)
	} else {
		days := service.AccountAgeDays(inception, uc.clock.Now())
		age = &days
	}

	flags := service.DecodeFlags(snapshot.Flags)
	signals := service.WalletSignals(service.WalletInputs{
		AccountAgeDays: age,
		Snapshot:       snapshot,
		Flags:          flags,
	})

	evidence := model.Evidence{
		Snapshot:       &snapshot,
		Flags:          &flags,
		AccountAgeDays: age,
		Domain:         valueobject.DecodeDomain(snapshot.Domain),
	}
	signals = uc.applyKnownAccount(ctx, t.subject, signals, &evidence)
	return signals, evidence, nil
}

func (uc *RunScan) scanProject(ctx context.Context, t scanTarget) ([]model.Signal, model.Evidence, error) {
	var (
		reachable bool
		manifest  valueobject.ProbeResult
	)

	// Probes report failures in their results, so the group never errors.
	var g errgroup.Group
	g.Go(func() error {
		reachable = uc.prober.ReachableHTTPS(ctx, t.subject)
		return nil
	})
	g.Go(func() error {
		manifest = uc.probe(ctx, t.subject)
		return nil
	})
	_ = g.Wait()

	signals := service.ProjectSignals(service.ProjectInputs{
		HTTPSReachable: reachable,
		Manifest:       manifest,
	})
	return signals, model.Evidence{
		HTTPSReachable: &reachable,
		Manifest:       manifest,
	}, nil
}

func (uc *RunScan) probe(ctx context.Context, domain string) valueobject.ProbeResult {
	result := uc.prober.Probe(ctx, domain)
	uc.logger.DebugContext(ctx, "manifest probe finished",
		slog.String("domain", domain),
		slog.String("outcome", result.Outcome.String()),
		slog.String("url", result.URL),
		slog.Int("status", result.StatusCode),
		slog.String("reason", result.Reason),
	)
	return result
}

// applyKnownAccount appends the registry signal when the account is listed.
// Registry failures never fail the scan.
func (uc *RunScan) applyKnownAccount(ctx context.Context, account string, signals []model.Signal, ev *model.Evidence) []model.Signal {
	if uc.known == nil {
		return signals
	}
	entry, found, err := uc.known.FindByAddress(ctx, account)
	if err != nil {
		uc.logger.WarnContext(ctx, "known-account lookup failed",
			slog.String("account", account),
			slog.String("error", err.Error()),
		)
		return signals
	}
	if !found {
		return signals
	}
	ev.KnownAccount = &entry
	return append(signals, service.KnownAccountSignal(entry))
}

func (uc *RunScan) publish(ctx context.Context, scan *model.Scan) {
	evts := scan.DomainEvents()
	if len(evts) == 0 || uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		uc.logger.WarnContext(ctx, "failed to publish scan events",
			slog.String("scan_id", scan.ID().String()),
			slog.String("error", err.Error()),
		)
	}
}

func (uc *RunScan) closeSession(ctx context.Context, sess port.LedgerSession) {
	if err := sess.Close(); err != nil {
		uc.logger.DebugContext(ctx, "ledger session close failed", slog.String("error", err.Error()))
	}
}

func (uc *RunScan) recordError(ctx context.Context, mode, kind string) {
	if uc.recorder != nil {
		uc.recorder.RecordScanError(ctx, mode, kind)
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "validation"
	case errors.Is(err, model.ErrTransport):
		return "transport"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
