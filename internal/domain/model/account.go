package model

import "github.com/shopspring/decimal"

// AccountSnapshot is the validated account root state captured once per scan.
type AccountSnapshot struct {
	Balance       decimal.Decimal
	Account       string
	Domain        string // hex, exactly as stored on ledger
	PreviousTxnID string
	Flags         uint32
	OwnerCount    uint32
	TransferRate  uint32 // billionths; 0 when the field is absent
	Sequence      uint32
	LedgerIndex   uint32
	HasRegularKey bool
}

// DecodedFlags is the named view over AccountSnapshot.Flags.
type DecodedFlags struct {
	PasswordSpent     bool `json:"password_spent"`
	RequireDestTag    bool `json:"require_dest_tag"`
	RequireAuth       bool `json:"require_auth"`
	DisallowXRP       bool `json:"disallow_xrp"`
	MasterKeyDisabled bool `json:"master_key_disabled"`
	NoFreeze          bool `json:"no_freeze"`
	GlobalFreeze      bool `json:"global_freeze"`
	DefaultRipple     bool `json:"default_ripple"`
	DepositAuth       bool `json:"deposit_auth"`
}

// TrustLine is one raw account_lines entry as seen from the queried account.
type TrustLine struct {
	Account   string
	Currency  string
	Balance   string
	Limit     string
	LimitPeer string
	NoRipple  bool
	Freeze    bool
}

// LinePage is one page of trust lines returned by the ledger node.
// Skipped counts entries dropped because required fields were missing.
type LinePage struct {
	Lines   []TrustLine
	Skipped int
}
