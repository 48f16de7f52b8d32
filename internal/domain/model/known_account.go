package model

import "time"

// KnownAccountStatus says how a curated registry entry should sway a scan.
type KnownAccountStatus string

const (
	KnownAccountTrusted KnownAccountStatus = "trusted"
	KnownAccountFlagged KnownAccountStatus = "flagged"
)

// KnownAccount is a curated registry entry for a ledger address.
type KnownAccount struct {
	UpdatedAt time.Time
	Address   string
	Label     string
	Status    KnownAccountStatus
}

// Trusted reports whether the entry vouches for the account.
func (k KnownAccount) Trusted() bool { return k.Status == KnownAccountTrusted }
