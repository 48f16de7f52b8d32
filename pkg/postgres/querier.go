package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the read surface shared by pgxpool.Pool, pgx.Conn and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
