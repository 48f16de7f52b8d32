package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a scan request is missing required fields.
	// No ledger call is made when this error is returned.
	ErrValidation = errors.New("validation failed")

	// ErrAccountNotFound means the ledger has no account root for the
	// requested address. It is a definitive answer, not a transport fault.
	ErrAccountNotFound = errors.New("account not found on ledger")

	// ErrTransport covers an unreachable node, timeouts and node-side errors
	// on mandatory calls.
	ErrTransport = errors.New("ledger transport failure")

	// ErrMalformedResponse is returned when a node response cannot be parsed
	// at all. It wraps ErrTransport.
	ErrMalformedResponse = fmt.Errorf("malformed ledger response: %w", ErrTransport)
)
