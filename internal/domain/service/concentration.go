package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/port"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

// DefaultTopN is the number of ranked holders reported when the caller
// does not ask for a specific count.
const DefaultTopN = 10

var hundred = decimal.NewFromInt(100)

// ConcentrationAggregator turns an issuer's trust lines into a holder
// distribution report.
type ConcentrationAggregator struct {
	logger *slog.Logger
}

// NewConcentrationAggregator creates a ConcentrationAggregator.
func NewConcentrationAggregator(logger *slog.Logger) *ConcentrationAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConcentrationAggregator{logger: logger}
}

// holderTally accumulates owed amounts per counterparty across pages.
type holderTally struct {
	amounts  map[string]decimal.Decimal
	currency string
	scanned  int
	skipped  int
	pages    int
}

func newHolderTally(currency string) *holderTally {
	return &holderTally{
		amounts:  make(map[string]decimal.Decimal),
		currency: valueobject.NormalizeCurrency(currency),
	}
}

// add folds one page into the tally. Lines with an unparsable balance are
// skipped; the rest of the page is still processed.
func (t *holderTally) add(page model.LinePage) {
	t.pages++
	t.skipped += page.Skipped
	for _, line := range page.Lines {
		t.scanned++
		if !valueobject.SameCurrency(line.Currency, t.currency) {
			continue
		}
		balance, err := decimal.NewFromString(strings.TrimSpace(line.Balance))
		if err != nil {
			t.skipped++
			continue
		}
		// Seen from the issuer, a negative balance is what the issuer owes
		// the counterparty, i.e. what the counterparty holds.
		owed := balance.Neg()
		if !owed.IsPositive() {
			continue
		}
		t.amounts[line.Account] = t.amounts[line.Account].Add(owed)
	}
}

// Aggregate drains pager and builds the report for currency. topN is
// clamped to [1, holderCount].
func (a *ConcentrationAggregator) Aggregate(
	ctx context.Context,
	issuer string,
	pager port.LinePager,
	currency string,
	topN int,
) (model.ConcentrationReport, error) {
	tally := newHolderTally(currency)
	for {
		page, done, err := pager.Next(ctx)
		if err != nil {
			return model.ConcentrationReport{}, fmt.Errorf("paginate trust lines for %s: %w", issuer, err)
		}
		tally.add(page)
		if done {
			break
		}
	}

	report := tally.report(issuer, topN)
	a.logger.DebugContext(ctx, "holder concentration computed",
		slog.String("issuer", issuer),
		slog.String("currency", report.Currency),
		slog.Int("pages", tally.pages),
		slog.Int("holders", report.HolderCount),
		slog.Int("skipped", report.LinesSkipped),
	)
	return report, nil
}

// AggregateLines is the in-memory form of Aggregate for callers that
// already hold every line.
func AggregateLines(issuer string, lines []model.TrustLine, currency string, topN int) model.ConcentrationReport {
	tally := newHolderTally(currency)
	tally.add(model.LinePage{Lines: lines})
	return tally.report(issuer, topN)
}

func (t *holderTally) report(issuer string, topN int) model.ConcentrationReport {
	holders := make([]model.HolderRecord, 0, len(t.amounts))
	supply := decimal.Zero
	for account, amount := range t.amounts {
		holders = append(holders, model.HolderRecord{Account: account, Amount: amount})
		supply = supply.Add(amount)
	}

	slices.SortFunc(holders, func(x, y model.HolderRecord) int {
		if c := y.Amount.Cmp(x.Amount); c != 0 {
			return c
		}
		return strings.Compare(x.Account, y.Account)
	})

	report := model.ConcentrationReport{
		Issuer:               issuer,
		Currency:             t.currency,
		TotalSupply:          supply,
		HolderCount:          len(holders),
		TopN:                 []model.HolderShare{},
		TopNPercent:          decimal.Zero,
		LargestHolderPercent: decimal.Zero,
		LinesScanned:         t.scanned,
		LinesSkipped:         t.skipped,
	}
	if len(holders) == 0 {
		return report
	}

	n := clampTopN(topN, len(holders))
	topSum := decimal.Zero
	for _, h := range holders[:n] {
		topSum = topSum.Add(h.Amount)
		report.TopN = append(report.TopN, model.HolderShare{
			HolderRecord: h,
			Percent:      percentOf(h.Amount, supply),
		})
	}
	report.TopNPercent = percentOf(topSum, supply)
	report.LargestHolderPercent = percentOf(holders[0].Amount, supply)
	return report
}

func clampTopN(topN, available int) int {
	if topN < 1 {
		topN = 1
	}
	if topN > available {
		topN = available
	}
	return topN
}

// percentOf returns part/whole as a percentage rounded to two places, or
// zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
