package store

import (
	"context"
	"database/sql"
)

// DBTX is the statement-execution surface the catalog store needs. Both
// *sql.DB and *sql.Tx satisfy it, so a store can run against the shared
// pool or inside a transaction a caller controls.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
