package xrpl

import (
	"errors"
	"fmt"

	"github.com/ledgerguard/riskscan/internal/domain/model"
)

// TransportError reports a failed exchange with the ledger node: dial and
// I/O failures, timeouts, and rippled errors other than actNotFound. It
// matches model.ErrTransport under errors.Is.
type TransportError struct {
	Err  error
	Op   string
	Code string
}

func (e *TransportError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("xrpl %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("xrpl %s: %v", e.Op, e.Err)
}

// Unwrap exposes both the transport sentinel and the cause.
func (e *TransportError) Unwrap() []error {
	return []error{model.ErrTransport, e.Err}
}

func transportErr(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

func malformed(op string, err error) error {
	return fmt.Errorf("xrpl %s: %w: %v", op, model.ErrMalformedResponse, err)
}

// classify turns a rippled error triple into a Go error.
func classify(op string, e rpcError) error {
	switch e.Code {
	case "actNotFound", "act_not_found":
		return fmt.Errorf("xrpl %s: %w", op, model.ErrAccountNotFound)
	case "actMalformed":
		return fmt.Errorf("xrpl %s: %w: malformed account address", op, model.ErrValidation)
	}
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	return &TransportError{Op: op, Code: e.Code, Err: errors.New(msg)}
}
