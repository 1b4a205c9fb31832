// Package db is the hand-written data layer for the ERP database. The schema
// (users, products, orders, settings) is owned by the main ERP application —
// this service only reads it. Queries hang off *Queries so the rest of the
// codebase depends on the Querier interface and tests can inject stubs.
package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every query method works
// inside or outside a transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New returns a Queries bound to the given connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries executes the SQL in the *.sql.go files against its DBTX.
type Queries struct {
	db DBTX
}

// WithTx returns a Queries scoped to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
