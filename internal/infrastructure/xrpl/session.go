package xrpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/port"
)

// session is one connection to the node. It is safe for concurrent use;
// the transport serialises calls.
type session struct {
	conn     rpcConn
	observer RequestObserver
	logger   *slog.Logger
	cfg      Config
}

func (s *session) call(ctx context.Context, command string, params map[string]any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	err := s.conn.call(ctx, command, params, out)
	if s.observer != nil {
		s.observer.RecordLedgerRequest(ctx, command, outcome(err), time.Since(start))
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, model.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}

// AccountInfo fetches the validated account root.
func (s *session) AccountInfo(ctx context.Context, account string) (model.AccountSnapshot, error) {
	var res accountInfoResult
	err := s.call(ctx, "account_info", map[string]any{
		"account":      account,
		"ledger_index": "validated",
		"strict":       true,
	}, &res)
	if err != nil {
		return model.AccountSnapshot{}, err
	}

	root := res.AccountData
	if root.Account == "" {
		return model.AccountSnapshot{}, malformed("account_info", errors.New("missing account_data"))
	}
	balance := decimal.Zero
	if root.Balance != "" {
		balance, err = decimal.NewFromString(root.Balance)
		if err != nil {
			return model.AccountSnapshot{}, malformed("account_info", fmt.Errorf("balance %q: %w", root.Balance, err))
		}
	}

	return model.AccountSnapshot{
		Account:       root.Account,
		Balance:       balance,
		Domain:        root.Domain,
		PreviousTxnID: root.PreviousTxnID,
		Flags:         root.Flags,
		OwnerCount:    root.OwnerCount,
		TransferRate:  root.TransferRate,
		Sequence:      root.Sequence,
		LedgerIndex:   res.LedgerIndex,
		HasRegularKey: root.RegularKey != "",
	}, nil
}

// AccountLines returns a pager over the account's trust lines.
func (s *session) AccountLines(account string) port.LinePager {
	return &linePager{sess: s, account: account}
}

// AccountInception returns the close time of the earliest transaction the
// node holds for account.
func (s *session) AccountInception(ctx context.Context, account string) (time.Time, error) {
	var res accountTxResult
	err := s.call(ctx, "account_tx", map[string]any{
		"account":          account,
		"ledger_index_min": -1,
		"ledger_index_max": -1,
		"forward":          true,
		"limit":            1,
	}, &res)
	if err != nil {
		return time.Time{}, err
	}
	if len(res.Transactions) == 0 {
		return time.Time{}, fmt.Errorf("xrpl account_tx: no transactions for %s", account)
	}
	date, ok := res.Transactions[0].date()
	if !ok {
		return time.Time{}, malformed("account_tx", errors.New("transaction has no date"))
	}
	return time.Unix(date+rippledEpochOffset, 0).UTC(), nil
}

func (s *session) Close() error {
	return s.conn.close()
}

// linePager walks account_lines with the node's opaque marker. After the
// first page it pins the ledger index so every page reads the same ledger.
type linePager struct {
	sess        *session
	account     string
	marker      []byte
	ledgerIndex uint32
	pages       int
	done        bool
}

func (p *linePager) Next(ctx context.Context) (model.LinePage, bool, error) {
	if p.done {
		return model.LinePage{}, true, nil
	}
	if p.pages >= p.sess.cfg.MaxPages {
		return model.LinePage{}, false, &TransportError{
			Op:  "account_lines",
			Err: fmt.Errorf("gave up after %d pages", p.pages),
		}
	}

	params := map[string]any{
		"account": p.account,
		"limit":   p.sess.cfg.PageLimit,
	}
	if p.ledgerIndex != 0 {
		params["ledger_index"] = p.ledgerIndex
	} else {
		params["ledger_index"] = "validated"
	}
	if p.marker != nil {
		params["marker"] = json.RawMessage(p.marker)
	}

	var res accountLinesResult
	if err := p.sess.call(ctx, "account_lines", params, &res); err != nil {
		return model.LinePage{}, false, err
	}
	if res.Lines == nil {
		return model.LinePage{}, false, malformed("account_lines", errors.New("missing lines"))
	}
	p.pages++
	if p.ledgerIndex == 0 {
		p.ledgerIndex = res.LedgerIndex
	}

	page := model.LinePage{Lines: make([]model.TrustLine, 0, len(*res.Lines))}
	for _, l := range *res.Lines {
		if strings.TrimSpace(l.Account) == "" || strings.TrimSpace(l.Currency) == "" {
			page.Skipped++
			continue
		}
		page.Lines = append(page.Lines, model.TrustLine{
			Account:   l.Account,
			Currency:  l.Currency,
			Balance:   l.Balance,
			Limit:     l.Limit,
			LimitPeer: l.LimitPeer,
			NoRipple:  l.NoRipple,
			Freeze:    l.Freeze,
		})
	}
	if page.Skipped > 0 {
		p.sess.logger.DebugContext(ctx, "skipped incomplete trust lines",
			slog.String("account", p.account),
			slog.Int("skipped", page.Skipped),
		)
	}

	if !hasMarker(res.Marker) {
		p.done = true
		p.marker = nil
		return page, true, nil
	}
	if p.marker != nil && string(res.Marker) == string(p.marker) {
		return model.LinePage{}, false, malformed("account_lines", errors.New("marker did not advance"))
	}
	p.marker = append([]byte(nil), res.Marker...)
	return page, false, nil
}

// Reset rewinds to the first page. The ledger pin is dropped so the next
// pass reads the latest validated ledger.
func (p *linePager) Reset() {
	p.marker = nil
	p.ledgerIndex = 0
	p.pages = 0
	p.done = false
}
