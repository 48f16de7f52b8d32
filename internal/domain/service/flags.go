package service

import "github.com/ledgerguard/riskscan/internal/domain/model"

// AccountRoot flag bits, as documented for the XRP Ledger AccountRoot entry.
const (
	LsfPasswordSpent  uint32 = 0x00010000
	LsfRequireDestTag uint32 = 0x00020000
	LsfRequireAuth    uint32 = 0x00040000
	LsfDisallowXRP    uint32 = 0x00080000
	LsfDisableMaster  uint32 = 0x00100000
	LsfNoFreeze       uint32 = 0x00200000
	LsfGlobalFreeze   uint32 = 0x00400000
	LsfDefaultRipple  uint32 = 0x00800000
	LsfDepositAuth    uint32 = 0x01000000
)

// DecodeFlags maps an AccountRoot Flags bitmask to named booleans.
// Bits without a known meaning are ignored.
func DecodeFlags(flags uint32) model.DecodedFlags {
	return model.DecodedFlags{
		PasswordSpent:     flags&LsfPasswordSpent != 0,
		RequireDestTag:    flags&LsfRequireDestTag != 0,
		RequireAuth:       flags&LsfRequireAuth != 0,
		DisallowXRP:       flags&LsfDisallowXRP != 0,
		MasterKeyDisabled: flags&LsfDisableMaster != 0,
		NoFreeze:          flags&LsfNoFreeze != 0,
		GlobalFreeze:      flags&LsfGlobalFreeze != 0,
		DefaultRipple:     flags&LsfDefaultRipple != 0,
		DepositAuth:       flags&LsfDepositAuth != 0,
	}
}
