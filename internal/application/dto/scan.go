package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

// NotFoundMessage is returned for scans of accounts that do not exist.
const NotFoundMessage = "account not found on ledger"

// ScanRequest is the input DTO for the RunScan use case. Account is used by
// the issuer and wallet modes, Domain by the project mode.
type ScanRequest struct {
	Mode     string `json:"mode"`
	Account  string `json:"account"`
	Currency string `json:"currency,omitempty"`
	Domain   string `json:"domain,omitempty"`
	TopN     int    `json:"topN,omitempty"`
}

// SignalResponse is one scored signal.
type SignalResponse struct {
	Key    string `json:"key"`
	Detail string `json:"detail,omitempty"`
	Weight int    `json:"weight"`
	Passed bool   `json:"passed"`
}

// ManifestResponse describes the manifest probe outcome.
type ManifestResponse struct {
	Outcome    string `json:"outcome"`
	URL        string `json:"url,omitempty"`
	Reason     string `json:"reason,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Attempts   int    `json:"attempts"`
}

// AccountResponse is the decoded account root.
type AccountResponse struct {
	Account       string `json:"account"`
	BalanceDrops  string `json:"balance_drops"`
	BalanceXRP    string `json:"balance_xrp"`
	Domain        string `json:"domain,omitempty"`
	DomainHex     string `json:"domain_hex,omitempty"`
	PreviousTxnID string `json:"previous_txn_id,omitempty"`
	Flags         uint32 `json:"flags"`
	OwnerCount    uint32 `json:"owner_count"`
	TransferRate  uint32 `json:"transfer_rate,omitempty"`
	Sequence      uint32 `json:"sequence"`
	LedgerIndex   uint32 `json:"ledger_index,omitempty"`
	RegularKey    bool   `json:"regular_key"`
}

// KnownAccountResponse is a registry hit.
type KnownAccountResponse struct {
	Label  string `json:"label"`
	Status string `json:"status"`
}

// ScanDetails carries the evidence a scan was scored from. Fields that do
// not apply to the scan mode are omitted.
type ScanDetails struct {
	Account            *AccountResponse      `json:"account,omitempty"`
	Flags              *model.DecodedFlags   `json:"flags,omitempty"`
	Concentration      *ConcentrationReport  `json:"concentration,omitempty"`
	Manifest           *ManifestResponse     `json:"manifest,omitempty"`
	KnownAccount       *KnownAccountResponse `json:"known_account,omitempty"`
	AccountAgeDays     *int                  `json:"account_age_days,omitempty"`
	HTTPSReachable     *bool                 `json:"https_reachable,omitempty"`
	Domain             string                `json:"domain,omitempty"`
	TransferTaxPercent string                `json:"transfer_tax_percent,omitempty"`
}

// ScanResponse is the output DTO returned after a scan.
type ScanResponse struct {
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Details    *ScanDetails     `json:"details,omitempty"`
	Signals    []SignalResponse `json:"signals"`
	ScanID     uuid.UUID        `json:"scan_id"`
	Mode       string           `json:"mode"`
	Subject    string           `json:"subject"`
	Verdict    string           `json:"verdict"`
	Color      string           `json:"color"`
	Message    string           `json:"message"`
	Percent    int              `json:"percent"`
	NotFound   bool             `json:"not_found"`
}

// FromScan maps a finished scan to the response DTO.
func FromScan(s *model.Scan) ScanResponse {
	result := s.Result()
	resp := ScanResponse{
		ScanID:     s.ID(),
		Mode:       s.Mode().String(),
		Subject:    s.Subject(),
		Verdict:    result.Verdict.String(),
		Color:      result.Verdict.Color(),
		Percent:    result.Percent,
		NotFound:   s.NotFound(),
		Signals:    make([]SignalResponse, 0, len(result.Signals)),
		StartedAt:  s.StartedAt(),
		FinishedAt: s.FinishedAt(),
	}
	for _, sig := range result.Signals {
		resp.Signals = append(resp.Signals, SignalResponse{
			Key:    sig.Key,
			Passed: sig.Passed,
			Weight: sig.Weight,
			Detail: sig.Detail,
		})
	}

	if s.NotFound() {
		resp.Message = NotFoundMessage
		return resp
	}
	resp.Message = summarize(result)
	resp.Details = fromEvidence(s.Mode(), s.Evidence())
	return resp
}

func summarize(r model.ScoreResult) string {
	passed := 0
	for _, sig := range r.Signals {
		if sig.Passed {
			passed++
		}
	}
	label := "medium risk"
	switch {
	case r.Verdict.Equal(valueobject.VerdictLowRisk):
		label = "low risk"
	case r.Verdict.Equal(valueobject.VerdictHighRisk):
		label = "high risk"
	}
	return fmt.Sprintf("%s: %d of %d signals passed", label, passed, len(r.Signals))
}

func fromEvidence(mode valueobject.ScanMode, ev model.Evidence) *ScanDetails {
	d := &ScanDetails{
		Flags:          ev.Flags,
		AccountAgeDays: ev.AccountAgeDays,
		HTTPSReachable: ev.HTTPSReachable,
	}
	if ev.Snapshot != nil {
		d.Account = fromSnapshot(*ev.Snapshot, ev.Domain)
	}
	if ev.Concentration != nil {
		c := FromConcentration(*ev.Concentration)
		d.Concentration = &c
	}
	if ev.KnownAccount != nil {
		d.KnownAccount = &KnownAccountResponse{Label: ev.KnownAccount.Label, Status: string(ev.KnownAccount.Status)}
	}
	if ev.Domain.IsSet() {
		d.Domain = ev.Domain.String()
	}
	if ev.Manifest.Outcome != valueobject.ProbeNotAttempted {
		d.Manifest = &ManifestResponse{
			Outcome:    ev.Manifest.Outcome.String(),
			URL:        ev.Manifest.URL,
			Reason:     ev.Manifest.Reason,
			StatusCode: ev.Manifest.StatusCode,
			Attempts:   ev.Manifest.Attempts,
		}
	}
	if mode.Equal(valueobject.ScanModeIssuer) {
		d.TransferTaxPercent = ev.TransferTax.StringFixed(2)
	}
	return d
}

func fromSnapshot(s model.AccountSnapshot, domain valueobject.DomainField) *AccountResponse {
	return &AccountResponse{
		Account:       s.Account,
		BalanceDrops:  s.Balance.String(),
		BalanceXRP:    s.Balance.Shift(-6).String(),
		Domain:        domain.Name(),
		DomainHex:     s.Domain,
		PreviousTxnID: s.PreviousTxnID,
		Flags:         s.Flags,
		OwnerCount:    s.OwnerCount,
		TransferRate:  s.TransferRate,
		Sequence:      s.Sequence,
		LedgerIndex:   s.LedgerIndex,
		RegularKey:    s.HasRegularKey,
	}
}
