package usecase

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/ledgerguard/riskscan/internal/application/dto"
	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/service"
	"github.com/ledgerguard/riskscan/internal/domain/valueobject"
)

// scanTarget is a validated ScanRequest.
type scanTarget struct {
	mode     valueobject.ScanMode
	subject  string
	currency string
	topN     int
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrValidation, fmt.Sprintf(format, args...))
}

func validateScan(req dto.ScanRequest) (scanTarget, error) {
	mode, err := valueobject.ScanModeFromString(req.Mode)
	if err != nil {
		return scanTarget{}, validationError("%v", err)
	}

	target := scanTarget{mode: mode, topN: normalizeTopN(req.TopN)}
	switch mode {
	case valueobject.ScanModeIssuer:
		target.subject = strings.TrimSpace(req.Account)
		target.currency = valueobject.NormalizeCurrency(req.Currency)
		if target.subject == "" {
			return scanTarget{}, validationError("account is required")
		}
		if target.currency == "" {
			return scanTarget{}, validationError("currency is required for issuer scans")
		}
	case valueobject.ScanModeWallet:
		target.subject = strings.TrimSpace(req.Account)
		if target.subject == "" {
			return scanTarget{}, validationError("account is required")
		}
	case valueobject.ScanModeProject:
		domain, err := normalizeDomain(req.Domain)
		if err != nil {
			return scanTarget{}, err
		}
		target.subject = domain
	}
	return target, nil
}

func normalizeTopN(n int) int {
	if n == 0 {
		return service.DefaultTopN
	}
	return max(n, 1)
}

// normalizeDomain reduces user input such as "https://Example.com/" to a
// bare host name and checks that it sits under a public suffix.
func normalizeDomain(raw string) (string, error) {
	d := strings.TrimSpace(raw)
	if d == "" {
		return "", validationError("domain is required")
	}
	d = strings.TrimPrefix(strings.TrimPrefix(d, "https://"), "http://")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if host, _, err := net.SplitHostPort(d); err == nil {
		d = host
	}
	d = strings.TrimSuffix(strings.ToLower(d), ".")
	if d == "" || strings.ContainsAny(d, " @") {
		return "", validationError("invalid domain %q", raw)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(d); err != nil {
		return "", validationError("invalid domain %q: %v", raw, err)
	}
	return d, nil
}
