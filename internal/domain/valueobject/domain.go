package valueobject

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// DomainState describes what an account's Domain field held.
type DomainState int

const (
	DomainAbsent DomainState = iota
	DomainPresent
	DomainUndecodable
)

// DomainField is the decoded form of an account root's hex Domain field.
type DomainField struct {
	raw   string
	name  string
	state DomainState
}

// DecodeDomain turns the ledger's hex-encoded Domain into text. Decoding
// never fails hard: bad hex or non UTF-8 bytes yield DomainUndecodable.
func DecodeDomain(raw string) DomainField {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DomainField{state: DomainAbsent}
	}

	b, err := hex.DecodeString(raw)
	if err != nil || !utf8.Valid(b) {
		return DomainField{raw: raw, state: DomainUndecodable}
	}

	name := strings.TrimSpace(strings.TrimRight(string(b), "\x00"))
	if name == "" {
		return DomainField{raw: raw, state: DomainUndecodable}
	}
	return DomainField{raw: raw, name: name, state: DomainPresent}
}

// EncodeDomain is the inverse of DecodeDomain, producing upper-case hex as
// the ledger stores it.
func EncodeDomain(name string) string {
	return strings.ToUpper(hex.EncodeToString([]byte(name)))
}

// Name returns the decoded domain, or "" unless the state is DomainPresent.
func (d DomainField) Name() string { return d.name }

// Raw returns the hex value as read from the ledger.
func (d DomainField) Raw() string { return d.raw }

// State returns the decode state.
func (d DomainField) State() DomainState { return d.state }

// IsSet reports whether the account declared any domain at all.
func (d DomainField) IsSet() bool { return d.state != DomainAbsent }

// Resolved reports whether the domain decoded to usable text.
func (d DomainField) Resolved() bool { return d.state == DomainPresent }

// String returns a human-readable description used in signal details.
func (d DomainField) String() string {
	switch d.state {
	case DomainPresent:
		return d.name
	case DomainUndecodable:
		return "domain present but undecodable"
	default:
		return "no domain set"
	}
}
