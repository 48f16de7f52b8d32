package dto

import "github.com/ledgerguard/riskscan/internal/domain/model"

// TokenMetricsRequest is the input DTO for the TokenMetrics use case.
type TokenMetricsRequest struct {
	Issuer   string `json:"issuer"`
	Currency string `json:"currency"`
	TopN     int    `json:"topN,omitempty"`
}

// HolderResponse is one ranked holder. Amounts carry six decimals and
// percentages two.
type HolderResponse struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Percent string `json:"percent"`
}

// ConcentrationReport is the wire form of model.ConcentrationReport.
type ConcentrationReport struct {
	Issuer               string           `json:"issuer"`
	Currency             string           `json:"currency"`
	TotalSupply          string           `json:"totalSupply"`
	TopNPercent          string           `json:"topNPercent"`
	LargestHolderPercent string           `json:"largestPercent"`
	TopHolders           []HolderResponse `json:"topHolders"`
	HolderCount          int              `json:"holdersCount"`
	TopN                 int              `json:"topN"`
	LinesScanned         int              `json:"linesScanned"`
	LinesSkipped         int              `json:"linesSkipped"`
}

// FromConcentration maps a domain report to its wire form.
func FromConcentration(r model.ConcentrationReport) ConcentrationReport {
	out := ConcentrationReport{
		Issuer:               r.Issuer,
		Currency:             r.Currency,
		TotalSupply:          r.TotalSupply.StringFixed(6),
		TopNPercent:          r.TopNPercent.StringFixed(2),
		LargestHolderPercent: r.LargestHolderPercent.StringFixed(2),
		TopHolders:           make([]HolderResponse, 0, len(r.TopN)),
		HolderCount:          r.HolderCount,
		TopN:                 len(r.TopN),
		LinesScanned:         r.LinesScanned,
		LinesSkipped:         r.LinesSkipped,
	}
	for _, h := range r.TopN {
		out.TopHolders = append(out.TopHolders, HolderResponse{
			Account: h.Account,
			Amount:  h.Amount.StringFixed(6),
			Percent: h.Percent.StringFixed(2),
		})
	}
	return out
}
