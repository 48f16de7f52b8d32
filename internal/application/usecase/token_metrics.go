package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledgerguard/riskscan/internal/application/dto"
	"github.com/ledgerguard/riskscan/internal/domain/port"
	"github.com/ledgerguard/riskscan/internal/domain/service"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

// TokenMetrics is the use case for reporting holder concentration of an
// issued token without scoring it.
type TokenMetrics struct {
	ledger     port.LedgerGateway
	aggregator *service.ConcentrationAggregator
	logger     *slog.Logger
}

// NewTokenMetrics creates a new TokenMetrics use case.
func NewTokenMetrics(
	ledger port.LedgerGateway,
	aggregator *service.ConcentrationAggregator,
	logger *slog.Logger,
) *TokenMetrics {
	if logger == nil {
		logger = slog.Default()
	}
	if aggregator == nil {
		aggregator = service.NewConcentrationAggregator(logger)
	}
	return &TokenMetrics{ledger: ledger, aggregator: aggregator, logger: logger}
}

// Execute paginates the issuer's trust lines and returns the report.
func (uc *TokenMetrics) Execute(ctx context.Context, req dto.TokenMetricsRequest) (dto.ConcentrationReport, error) {
	issuer := strings.TrimSpace(req.Issuer)
	currency := valueobject.NormalizeCurrency(req.Currency)
	if issuer == "" || currency == "" {
		return dto.ConcentrationReport{}, validationError("issuer and currency are required")
	}

	sess, err := uc.ledger.Open(ctx)
	if err != nil {
		return dto.ConcentrationReport{}, fmt.Errorf("failed to open ledger session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			uc.logger.DebugContext(ctx, "ledger session close failed", slog.String("error", err.Error()))
		}
	}()

	report, err := uc.aggregator.Aggregate(ctx, issuer, sess.AccountLines(issuer), currency, normalizeTopN(req.TopN))
	if err != nil {
		return dto.ConcentrationReport{}, fmt.Errorf("failed to aggregate holders: %w", err)
	}
	return dto.FromConcentration(report), nil
}
