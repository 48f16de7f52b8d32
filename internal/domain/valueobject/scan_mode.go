package valueobject

import (
	"fmt"
	"strings"
)

// ScanMode selects which signal profile a scan uses.
type ScanMode struct {
	value string
}

var (
	ScanModeIssuer  = ScanMode{value: "issuer"}
	ScanModeWallet  = ScanMode{value: "wallet"}
	ScanModeProject = ScanMode{value: "project"}
)

// ScanModeFromString parses a mode name, case-insensitively. "token" is
// accepted as an alias for issuer and "address" for wallet.
func ScanModeFromString(s string) (ScanMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "issuer", "token":
		return ScanModeIssuer, nil
	case "wallet", "address":
		return ScanModeWallet, nil
	case "project", "domain":
		return ScanModeProject, nil
	default:
		return ScanMode{}, fmt.Errorf("invalid scan mode: %q", s)
	}
}

// String returns the string representation.
func (m ScanMode) String() string {
	return m.value
}

// IsZero returns true if the mode has not been set.
func (m ScanMode) IsZero() bool {
	return m.value == ""
}

// Equal checks equality with another ScanMode.
func (m ScanMode) Equal(other ScanMode) bool {
	return m.value == other.value
}

// NeedsLedger reports whether scans in this mode talk to the ledger node.
func (m ScanMode) NeedsLedger() bool {
	return m.value == "issuer" || m.value == "wallet"
}
