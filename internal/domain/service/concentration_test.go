package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/service"
)

// slicePager serves fixed lines in pages of size n.
type slicePager struct {
	err   error
	lines []model.TrustLine
	size  int
	pos   int
	calls int
}

func (p *slicePager) Next(_ context.Context) (model.LinePage, bool, error) {
	p.calls++
	if p.err != nil {
		return model.LinePage{}, false, p.err
	}
	end := min(p.pos+p.size, len(p.lines))
	page := model.LinePage{Lines: p.lines[p.pos:end]}
	p.pos = end
	return page, p.pos >= len(p.lines), nil
}

func (p *slicePager) Reset() { p.pos = 0 }

func line(account, currency, balance string) model.TrustLine {
	return model.TrustLine{Account: account, Currency: currency, Balance: balance, Limit: "0", LimitPeer: "1000000"}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func sampleLines() []model.TrustLine {
	lines := make([]model.TrustLine, 0, 60)
	for i := range 50 {
		lines = append(lines, line(fmt.Sprintf("rHolder%02d", i), "USD", fmt.Sprintf("-%d.25", i+1)))
	}
	lines = append(lines,
		line("rOther", "EUR", "-999999"),
		line("rDebtor", "USD", "50"),
		line("rHolder03", "usd", "-10"),
		line("rBroken", "USD", "not-a-number"),
		line("rZero", "USD", "0"),
	)
	return lines
}

func TestConcentrationAggregator_PageBoundaryInvariance(t *testing.T) {
	agg := service.NewConcentrationAggregator(nil)
	lines := sampleLines()

	small, err := agg.Aggregate(context.Background(), "rIssuer", &slicePager{lines: lines, size: 1}, "USD", 10)
	require.NoError(t, err)
	large, err := agg.Aggregate(context.Background(), "rIssuer", &slicePager{lines: lines, size: 400}, "USD", 10)
	require.NoError(t, err)

	assert.Equal(t, large.HolderCount, small.HolderCount)
	assert.Equal(t, large.LinesScanned, small.LinesScanned)
	assert.Equal(t, large.LinesSkipped, small.LinesSkipped)
	assertDecimal(t, large.TotalSupply.String(), small.TotalSupply)
	assertDecimal(t, large.TopNPercent.String(), small.TopNPercent)
	assertDecimal(t, large.LargestHolderPercent.String(), small.LargestHolderPercent)
	require.Len(t, small.TopN, len(large.TopN))
	for i := range large.TopN {
		assert.Equal(t, large.TopN[i].Account, small.TopN[i].Account)
		assertDecimal(t, large.TopN[i].Amount.String(), small.TopN[i].Amount)
		assertDecimal(t, large.TopN[i].Percent.String(), small.TopN[i].Percent)
	}
}

func TestConcentrationAggregator_Aggregate(t *testing.T) {
	agg := service.NewConcentrationAggregator(nil)
	report, err := agg.Aggregate(context.Background(), "rIssuer", &slicePager{lines: sampleLines(), size: 7}, "usd", 3)
	require.NoError(t, err)

	assert.Equal(t, "rIssuer", report.Issuer)
	assert.Equal(t, "USD", report.Currency)
	assert.Equal(t, 50, report.HolderCount)
	assert.Equal(t, 55, report.LinesScanned)
	assert.Equal(t, 1, report.LinesSkipped)
	// sum of 1.25..50.25 plus the duplicate 10 for rHolder03
	assertDecimal(t, "1297.5", report.TotalSupply)

	require.Len(t, report.TopN, 3)
	assert.Equal(t, "rHolder49", report.TopN[0].Account)
	assertDecimal(t, "50.25", report.TopN[0].Amount)
	assert.Equal(t, "rHolder48", report.TopN[1].Account)
	assert.Equal(t, "rHolder47", report.TopN[2].Account)
	assertDecimal(t, "3.87", report.LargestHolderPercent)
	assertDecimal(t, "11.39", report.TopNPercent)
}

func TestConcentrationAggregator_PaginationError(t *testing.T) {
	agg := service.NewConcentrationAggregator(nil)
	boom := errors.New("connection reset")

	_, err := agg.Aggregate(context.Background(), "rIssuer", &slicePager{err: boom, size: 1}, "USD", 10)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "paginate trust lines for rIssuer")
}

func TestAggregateLines(t *testing.T) {
	t.Run("merges duplicate counterparties", func(t *testing.T) {
		report := service.AggregateLines("rIssuer", []model.TrustLine{
			line("rA", "USD", "-5"),
			line("rA", "USD", "-3"),
		}, "USD", 10)

		require.Len(t, report.TopN, 1)
		assert.Equal(t, 1, report.HolderCount)
		assertDecimal(t, "8", report.TopN[0].Amount)
		assertDecimal(t, "100", report.TopNPercent)
	})

	t.Run("sign convention", func(t *testing.T) {
		report := service.AggregateLines("rIssuer", []model.TrustLine{
			line("rHolder", "USD", "-123.456"),
			line("rDebtor", "USD", "+50"),
		}, "USD", 10)

		require.Len(t, report.TopN, 1)
		assert.Equal(t, "rHolder", report.TopN[0].Account)
		assertDecimal(t, "123.456", report.TopN[0].Amount)
		assertDecimal(t, "123.456", report.TotalSupply)
	})

	t.Run("zero supply", func(t *testing.T) {
		report := service.AggregateLines("rIssuer", []model.TrustLine{
			line("rDebtor", "USD", "50"),
			line("rOther", "EUR", "-20"),
		}, "USD", 10)

		assert.True(t, report.TotalSupply.IsZero())
		assert.Equal(t, 0, report.HolderCount)
		assert.True(t, report.TopNPercent.IsZero())
		assert.True(t, report.LargestHolderPercent.IsZero())
		assert.NotNil(t, report.TopN)
		assert.Empty(t, report.TopN)
	})

	t.Run("no lines", func(t *testing.T) {
		report := service.AggregateLines("rIssuer", nil, "USD", 10)
		assert.True(t, report.TotalSupply.IsZero())
		assert.Equal(t, 0, report.HolderCount)
	})

	t.Run("ties break by account", func(t *testing.T) {
		report := service.AggregateLines("rIssuer", []model.TrustLine{
			line("rC", "USD", "-10"),
			line("rA", "USD", "-10"),
			line("rB", "USD", "-10"),
		}, "USD", 2)

		require.Len(t, report.TopN, 2)
		assert.Equal(t, "rA", report.TopN[0].Account)
		assert.Equal(t, "rB", report.TopN[1].Account)
	})

	t.Run("topN clamps", func(t *testing.T) {
		lines := []model.TrustLine{line("rA", "USD", "-1"), line("rB", "USD", "-2")}

		assert.Len(t, service.AggregateLines("rIssuer", lines, "USD", 0).TopN, 1)
		assert.Len(t, service.AggregateLines("rIssuer", lines, "USD", -4).TopN, 1)
		assert.Len(t, service.AggregateLines("rIssuer", lines, "USD", 99).TopN, 2)
	})

	t.Run("hex currency matches case-insensitively", func(t *testing.T) {
		code := "534F4C4F00000000000000000000000000000000"
		report := service.AggregateLines("rIssuer", []model.TrustLine{
			line("rA", "534f4c4f00000000000000000000000000000000", "-7"),
		}, code, 10)
		assert.Equal(t, 1, report.HolderCount)
	})
}

func TestAggregateLines_PercentBounds(t *testing.T) {
	sets := [][]string{
		{"-1"},
		{"-1", "-1", "-1"},
		{"-0.000001", "-999999999.999999", "-3.3333333"},
		{"-7", "-11", "-13", "-17", "-19", "-23", "-29", "-31", "-37", "-41", "-43", "-47"},
	}
	for i, balances := range sets {
		t.Run(fmt.Sprintf("set %d", i), func(t *testing.T) {
			lines := make([]model.TrustLine, 0, len(balances))
			for j, b := range balances {
				lines = append(lines, line(fmt.Sprintf("r%d", j), "USD", b))
			}
			for _, n := range []int{1, 2, 5, 10} {
				report := service.AggregateLines("rIssuer", lines, "USD", n)
				assert.True(t, report.TopNPercent.LessThanOrEqual(dec("100")), "topN %s", report.TopNPercent)
				assert.True(t, report.LargestHolderPercent.LessThanOrEqual(report.TopNPercent))
				assert.True(t, report.LargestHolderPercent.IsPositive())
			}
		})
	}
}
