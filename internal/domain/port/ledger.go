package port

import (
	"context"
	"time"

	"github.com/ledgerguard/riskscan/internal/domain/model"
)

// LedgerGateway opens sessions against a ledger node. Every scan opens
// exactly one session and closes it on every exit path.
type LedgerGateway interface {
	Open(ctx context.Context) (LedgerSession, error)
}

// LedgerSession is a single connected session to a ledger node.
type LedgerSession interface {
	// AccountInfo returns the validated account root, or
	// model.ErrAccountNotFound when the account does not exist.
	AccountInfo(ctx context.Context, account string) (model.AccountSnapshot, error)

	// AccountLines returns a lazy pager over the account's trust lines.
	// No request is made until Next is called.
	AccountLines(account string) LinePager

	// AccountInception returns the close time of the account's earliest
	// transaction known to the node.
	AccountInception(ctx context.Context, account string) (time.Time, error)

	// Close releases the underlying connection.
	Close() error
}

// LinePager walks cursor-based account_lines pagination. Next returns one
// page at a time and done=true once the node stops returning a cursor.
// Reset restarts the sequence from the first page.
type LinePager interface {
	Next(ctx context.Context) (page model.LinePage, done bool, err error)
	Reset()
}
