// Package memory provides an in-process known-account registry used when no
// database is configured.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/port"
)

// DonationWallet is the one address the registry vouches for out of the box.
const DonationWallet = "rEb8TK3gBgk5auZkwc6sHnwrGVJH8DuaLh"

// KnownAccountRegistry implements port.KnownAccountRepository over a map.
type KnownAccountRegistry struct {
	accounts map[string]model.KnownAccount
	mu       sync.RWMutex
}

var _ port.KnownAccountRepository = (*KnownAccountRegistry)(nil)

// NewKnownAccountRegistry returns a registry seeded with entries.
func NewKnownAccountRegistry(entries ...model.KnownAccount) *KnownAccountRegistry {
	r := &KnownAccountRegistry{accounts: make(map[string]model.KnownAccount, len(entries))}
	for _, e := range entries {
		r.Put(e)
	}
	return r
}

// NewDefaultRegistry returns a registry holding the donation wallet.
func NewDefaultRegistry() *KnownAccountRegistry {
	return NewKnownAccountRegistry(model.KnownAccount{
		Address:   DonationWallet,
		Label:     "Ripple donation wallet",
		Status:    model.KnownAccountTrusted,
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

// Put adds or replaces an entry.
func (r *KnownAccountRegistry) Put(k model.KnownAccount) {
	k.Address = strings.TrimSpace(k.Address)
	if k.UpdatedAt.IsZero() {
		k.UpdatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	r.accounts[k.Address] = k
	r.mu.Unlock()
}

// FindByAddress looks up one entry.
func (r *KnownAccountRegistry) FindByAddress(_ context.Context, address string) (model.KnownAccount, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.accounts[strings.TrimSpace(address)]
	return k, ok, nil
}

// List returns every entry with the given status, ordered by address.
func (r *KnownAccountRegistry) List(_ context.Context, status model.KnownAccountStatus) ([]model.KnownAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.KnownAccount
	for _, k := range r.accounts {
		if k.Status == status {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}
