// Package manifest checks domains for the xrp-ledger.toml manifest.
package manifest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ledgerguard/riskscan/internal/domain/port"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

// WellKnownPath is where a ledger manifest is published.
const WellKnownPath = "/.well-known/xrp-ledger.toml"

// DefaultTimeout bounds each probe attempt.
const DefaultTimeout = 3500 * time.Millisecond

const userAgent = "riskscan/1.0 (+https://xrpl.org/xrp-ledger-toml.html)"

// Prober probes domains over HTTPS. Each attempt has its own timeout and
// nothing is retried.
type Prober struct {
	client  *http.Client
	logger  *slog.Logger
	timeout time.Duration
}

var _ port.ManifestProber = (*Prober)(nil)

// Option configures a Prober.
type Option func(*Prober)

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Prober) { p.client.Transport = rt }
}

// NewProber creates a Prober. A non-positive timeout uses DefaultTimeout.
func NewProber(timeout time.Duration, logger *slog.Logger, opts ...Option) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Prober{
		client:  &http.Client{},
		logger:  logger,
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe fetches the manifest from the bare domain, then from its www.
// host. The first 2xx answer wins. When no host answers 2xx, a non-2xx
// answer is reported as NotFound in preference to a connection error.
func (p *Prober) Probe(ctx context.Context, domain string) valueobject.ProbeResult {
	host := hostOf(domain)
	if host == "" {
		return valueobject.ProbeResult{}
	}

	candidates := []string{host}
	if !strings.HasPrefix(host, "www.") {
		candidates = append(candidates, "www."+host)
	}

	var notFound, failed *valueobject.ProbeResult
	for i, h := range candidates {
		url := "https://" + h + WellKnownPath
		status, err := p.fetch(ctx, http.MethodGet, url)
		attempt := valueobject.ProbeResult{URL: url, StatusCode: status, Attempts: i + 1}

		switch {
		case err != nil:
			attempt.Outcome = valueobject.ProbeError
			attempt.Reason = err.Error()
			failed = &attempt
		case status >= 200 && status < 300:
			attempt.Outcome = valueobject.ProbeFound
			return attempt
		default:
			attempt.Outcome = valueobject.ProbeNotFound
			attempt.Reason = http.StatusText(status)
			notFound = &attempt
		}
		p.logger.DebugContext(ctx, "manifest attempt failed",
			slog.String("url", url),
			slog.Int("status", status),
			slog.String("reason", attempt.Reason),
		)
		if ctx.Err() != nil {
			break
		}
	}

	result := failed
	if notFound != nil {
		result = notFound
	}
	result.Attempts = len(candidates)
	return *result
}

// ReachableHTTPS reports whether https://domain answers a HEAD with 2xx.
func (p *Prober) ReachableHTTPS(ctx context.Context, domain string) bool {
	host := hostOf(domain)
	if host == "" {
		return false
	}
	status, err := p.fetch(ctx, http.MethodHead, "https://"+host)
	if err != nil {
		p.logger.DebugContext(ctx, "https check failed", slog.String("host", host), slog.String("error", err.Error()))
		return false
	}
	return status >= 200 && status < 300
}

func (p *Prober) fetch(ctx context.Context, method, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

// hostOf strips a scheme, path and trailing dot from a domain field.
func hostOf(domain string) string {
	d := strings.TrimSpace(domain)
	d = strings.TrimPrefix(strings.TrimPrefix(d, "https://"), "http://")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	return strings.ToLower(strings.TrimSuffix(d, "."))
}
