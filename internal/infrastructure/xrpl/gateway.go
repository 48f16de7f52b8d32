// Package xrpl is the ledger gateway: it opens sessions to an XRP Ledger
// node over WebSocket or JSON-RPC and maps responses to domain types.
package xrpl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ledgerguard/riskscan/internal/domain/port"
)

// RequestObserver is notified after every ledger command.
type RequestObserver interface {
	RecordLedgerRequest(ctx context.Context, command, outcome string, elapsed time.Duration)
}

// Config tunes a Gateway.
type Config struct {
	NodeURL        string
	PageLimit      int
	MaxPages       int
	RequestTimeout time.Duration
}

// Gateway opens ledger sessions against one node.
type Gateway struct {
	observer RequestObserver
	logger   *slog.Logger
	cfg      Config
	ws       bool
}

var _ port.LedgerGateway = (*Gateway)(nil)

// NewGateway validates the node URL and returns a Gateway. ws:// and wss://
// use the WebSocket API; http:// and https:// use JSON-RPC.
func NewGateway(cfg Config, observer RequestObserver, logger *slog.Logger) (*Gateway, error) {
	u, err := url.Parse(cfg.NodeURL)
	if err != nil {
		return nil, fmt.Errorf("parse ledger node url: %w", err)
	}

	g := &Gateway{cfg: cfg, observer: observer, logger: logger}
	switch u.Scheme {
	case "ws", "wss":
		g.ws = true
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported ledger node scheme %q", u.Scheme)
	}

	if g.cfg.PageLimit <= 0 {
		g.cfg.PageLimit = 400
	}
	if g.cfg.MaxPages <= 0 {
		g.cfg.MaxPages = 2500
	}
	if g.cfg.RequestTimeout <= 0 {
		g.cfg.RequestTimeout = 20 * time.Second
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g, nil
}

// Open connects a new session. The caller must Close it.
func (g *Gateway) Open(ctx context.Context) (port.LedgerSession, error) {
	var conn rpcConn
	if g.ws {
		dialCtx, cancel := context.WithTimeout(ctx, g.cfg.RequestTimeout)
		defer cancel()
		ws, err := dialWS(dialCtx, g.cfg.NodeURL)
		if err != nil {
			return nil, err
		}
		conn = ws
	} else {
		conn = &httpConn{client: &http.Client{Timeout: g.cfg.RequestTimeout}, url: g.cfg.NodeURL}
	}

	g.logger.DebugContext(ctx, "ledger session opened", slog.String("node", g.cfg.NodeURL))
	return &session{
		conn:     conn,
		observer: g.observer,
		logger:   g.logger,
		cfg:      g.cfg,
	}, nil
}
