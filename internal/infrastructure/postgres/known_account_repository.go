package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ledgerguard/riskscan/internal/domain/model"
	"github.com/ledgerguard/riskscan/internal/domain/port"
	pgutil "github.com/ledgerguard/riskscan/pkg/postgres"
)

// KnownAccountRepository implements port.KnownAccountRepository using PostgreSQL.
type KnownAccountRepository struct {
	db pgutil.Querier
}

var _ port.KnownAccountRepository = (*KnownAccountRepository)(nil)

// NewKnownAccountRepository creates a new PostgreSQL-backed registry.
func NewKnownAccountRepository(db pgutil.Querier) *KnownAccountRepository {
	return &KnownAccountRepository{db: db}
}

// FindByAddress looks up one registry entry.
func (r *KnownAccountRepository) FindByAddress(ctx context.Context, address string) (model.KnownAccount, bool, error) {
	var (
		k      model.KnownAccount
		status string
	)
	err := r.db.QueryRow(ctx, `
		SELECT address, label, status, updated_at
		FROM known_accounts
		WHERE address = $1
	`, strings.TrimSpace(address)).Scan(&k.Address, &k.Label, &status, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.KnownAccount{}, false, nil
	}
	if err != nil {
		return model.KnownAccount{}, false, fmt.Errorf("failed to find known account: %w", err)
	}
	k.Status = model.KnownAccountStatus(status)
	return k, true, nil
}

// List returns every entry with the given status, ordered by address.
func (r *KnownAccountRepository) List(ctx context.Context, status model.KnownAccountStatus) ([]model.KnownAccount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT address, label, status, updated_at
		FROM known_accounts
		WHERE status = $1
		ORDER BY address
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list known accounts: %w", err)
	}
	defer rows.Close()

	var out []model.KnownAccount
	for rows.Next() {
		var (
			k model.KnownAccount
			s string
		)
		if err := rows.Scan(&k.Address, &k.Label, &s, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan known account: %w", err)
		}
		k.Status = model.KnownAccountStatus(s)
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate known accounts: %w", err)
	}
	return out, nil
}
