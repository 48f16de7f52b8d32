package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

// Signal keys.
const (
	SignalMasterKeyDisabled = "master_key_disabled"
	SignalDomainPresent     = "domain_present"
	SignalManifestFound     = "manifest_found"
	SignalGlobalFreezeOff   = "global_freeze_off"
	SignalNoFreezeEnabled   = "no_freeze_enabled"
	SignalTransferTaxLow    = "transfer_tax_low"
	SignalHolderCount       = "holder_count"
	SignalAccountAge        = "account_age"
	SignalOwnerCountLow     = "owner_count_low"
	SignalDepositAuthOff    = "deposit_auth_off"
	SignalKeyUsable         = "regular_key_or_master"
	SignalHTTPSReachable    = "https_ok"
	SignalKnownAccount      = "known_account"
)

// Signal weights. They are fixed; nothing at request time may change them.
const (
	weightMasterKeyDisabled = 3
	weightDomainPresent     = 2
	weightManifestIssuer    = 3
	weightGlobalFreezeOff   = 2
	weightNoFreezeEnabled   = 2
	weightTransferTaxLow    = 2
	weightHolderCount       = 1

	weightAccountAge      = 2
	weightOwnerCountLow   = 1
	weightWalletFreezeOff = 2
	weightDepositAuthOff  = 1
	weightKeyUsable       = 1

	weightHTTPSReachable  = 1
	weightManifestProject = 2

	weightKnownAccount = 3
)

// Thresholds used by the signal predicates.
var (
	MaxTransferTaxPercent = decimal.NewFromInt(1)
)

const (
	MinHolderCount    = 10
	MinAccountAgeDays = 30
	MaxOwnerCount     = 50
)

// IssuerInputs is everything the issuer profile scores.
type IssuerInputs struct {
	TransferTax   decimal.Decimal
	Manifest      valueobject.ProbeResult
	Domain        valueobject.DomainField
	Concentration model.ConcentrationReport
	Flags         model.DecodedFlags
}

// WalletInputs is everything the wallet profile scores. AccountAgeDays is
// nil when the inception lookup failed.
type WalletInputs struct {
	AccountAgeDays *int
	Snapshot       model.AccountSnapshot
	Flags          model.DecodedFlags
}

// ProjectInputs is everything the project profile scores.
type ProjectInputs struct {
	Manifest       valueobject.ProbeResult
	HTTPSReachable bool
}

// IssuerSignals builds the token-issuer profile.
func IssuerSignals(in IssuerInputs) []model.Signal {
	return []model.Signal{
		model.NewSignal(SignalMasterKeyDisabled, in.Flags.MasterKeyDisabled, weightMasterKeyDisabled,
			onOff(in.Flags.MasterKeyDisabled, "master key disabled", "master key still enabled")),
		model.NewSignal(SignalDomainPresent, in.Domain.Resolved(), weightDomainPresent, in.Domain.String()),
		model.NewSignal(SignalManifestFound, in.Manifest.Found(), weightManifestIssuer, manifestDetail(in.Manifest)),
		model.NewSignal(SignalGlobalFreezeOff, !in.Flags.GlobalFreeze, weightGlobalFreezeOff,
			onOff(!in.Flags.GlobalFreeze, "global freeze off", "global freeze active")),
		model.NewSignal(SignalNoFreezeEnabled, in.Flags.NoFreeze, weightNoFreezeEnabled,
			onOff(in.Flags.NoFreeze, "issuer gave up freezing", "issuer can still freeze lines")),
		model.NewSignal(SignalTransferTaxLow, in.TransferTax.LessThanOrEqual(MaxTransferTaxPercent), weightTransferTaxLow,
			fmt.Sprintf("transfer tax %s%%", in.TransferTax.StringFixed(2))),
		model.NewSignal(SignalHolderCount, in.Concentration.HolderCount >= MinHolderCount, weightHolderCount,
			fmt.Sprintf("%d holders", in.Concentration.HolderCount)),
	}
}

// WalletSignals builds the wallet profile. Domain and manifest are issuer
// concerns and are not scored here.
func WalletSignals(in WalletInputs) []model.Signal {
	ageOK := false
	ageDetail := "account age unavailable"
	if in.AccountAgeDays != nil {
		ageOK = *in.AccountAgeDays >= MinAccountAgeDays
		ageDetail = fmt.Sprintf("account is %d days old", *in.AccountAgeDays)
	}

	// A master-disabled account with no regular key can never sign again.
	keyUsable := !in.Flags.MasterKeyDisabled || in.Snapshot.HasRegularKey

	return []model.Signal{
		model.NewSignal(SignalAccountAge, ageOK, weightAccountAge, ageDetail),
		model.NewSignal(SignalOwnerCountLow, in.Snapshot.OwnerCount <= MaxOwnerCount, weightOwnerCountLow,
			fmt.Sprintf("owns %d ledger objects", in.Snapshot.OwnerCount)),
		model.NewSignal(SignalGlobalFreezeOff, !in.Flags.GlobalFreeze, weightWalletFreezeOff,
			onOff(!in.Flags.GlobalFreeze, "global freeze off", "global freeze active")),
		model.NewSignal(SignalDepositAuthOff, !in.Flags.DepositAuth, weightDepositAuthOff,
			onOff(!in.Flags.DepositAuth, "accepts deposits", "deposit authorization required")),
		model.NewSignal(SignalKeyUsable, keyUsable, weightKeyUsable,
			onOff(keyUsable, "account can sign", "black-holed: no usable signing key")),
	}
}

// ProjectSignals builds the project-domain profile.
func ProjectSignals(in ProjectInputs) []model.Signal {
	return []model.Signal{
		model.NewSignal(SignalHTTPSReachable, in.HTTPSReachable, weightHTTPSReachable,
			onOff(in.HTTPSReachable, "https reachable", "https unreachable")),
		model.NewSignal(SignalManifestFound, in.Manifest.Found(), weightManifestProject, manifestDetail(in.Manifest)),
	}
}

// KnownAccountSignal turns a registry hit into a signal: trusted entries
// pass, flagged entries fail.
func KnownAccountSignal(k model.KnownAccount) model.Signal {
	detail := string(k.Status)
	if k.Label != "" {
		detail = fmt.Sprintf("%s: %s", k.Status, k.Label)
	}
	return model.NewSignal(SignalKnownAccount, k.Trusted(), weightKnownAccount, detail)
}

func manifestDetail(r valueobject.ProbeResult) string {
	switch r.Outcome {
	case valueobject.ProbeFound:
		return "manifest at " + r.URL
	case valueobject.ProbeNotFound:
		return fmt.Sprintf("manifest missing (HTTP %d)", r.StatusCode)
	case valueobject.ProbeError:
		return "manifest unreachable: " + r.Reason
	default:
		return "no domain to probe"
	}
}

func onOff(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
