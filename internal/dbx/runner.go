package dbx

import (
	"context"
	"database/sql"
)

// TxRunner is the unit-of-work boundary used by services. Everything fn does
// through tx commits together or not at all.
type TxRunner interface {
	// Conn returns a non-transactional handle for plain reads.
	Conn() DBTX
	// InTx runs fn inside a single transaction.
	InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLRunner runs transactions against a *sql.DB with fixed options.
type SQLRunner struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewSQLRunner returns a runner using read-committed transactions.
func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db}
}

// NewSerializableRunner returns a runner whose transactions use serializable
// isolation. Conflicting transactions fail with a serialization error which
// callers detect with IsRetryable.
func NewSerializableRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{db: db, opts: &sql.TxOptions{Isolation: sql.LevelSerializable}}
}

func (r *SQLRunner) Conn() DBTX {
	return r.db
}

func (r *SQLRunner) InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return WithTx(ctx, r.db, r.opts, fn)
}
