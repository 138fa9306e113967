package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so accessors can join a
// caller's transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Owned tables, by name, for OwnedBy.
const (
	Clients      = "clients"
	Employees    = "employees"
	Services     = "services"
	Products     = "products"
	Appointments = "appointments"
)

// OwnedBy reports whether the row id of table belongs to userID. table must
// be one of the constants above.
func OwnedBy(ctx context.Context, q DBTX, table string, id, userID any) (bool, error) {
	switch table {
	case Clients, Employees, Services, Products, Appointments:
	default:
		return false, fmt.Errorf("ownership check on unknown table %q", table)
	}
	var owned bool
	query := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE id = $1 AND user_id = $2)`
	if err := q.QueryRowContext(ctx, query, id, userID).Scan(&owned); err != nil {
		return false, fmt.Errorf("ownership %s: %w", table, err)
	}
	return owned, nil
}
