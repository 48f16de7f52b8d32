package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// transferRateParity is the TransferRate value meaning "no fee". Rates are
// expressed in billionths of a unit.
const transferRateParity = 1_000_000_000

// TransferTaxPercent converts a raw TransferRate into a fee percentage.
// A zero (absent) rate means no fee; rates below parity clamp to zero.
func TransferTaxPercent(rate uint32) decimal.Decimal {
	if rate == 0 {
		return decimal.Zero
	}
	r := decimal.NewFromInt(int64(rate))
	parity := decimal.NewFromInt(transferRateParity)
	pct := r.Sub(parity).Div(parity).Mul(decimal.NewFromInt(100))
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}

// AccountAgeDays returns whole days between inception and now. It depends on
// the wall clock by definition; callers pass now explicitly.
func AccountAgeDays(inception, now time.Time) int {
	if inception.IsZero() || now.Before(inception) {
		return 0
	}
	return int(now.Sub(inception).Hours() / 24)
}
