// Package dbxtest provides an in-memory dbx.TxRunner for service tests.
package dbxtest

import (
	"context"
	"sync"

	"github.com/georgemunganga/marketplace-backend/internal/dbx"
)

// Snapshotter is a fake store that can be rolled back. Snapshot captures the
// current state and returns a function restoring it.
type Snapshotter interface {
	Snapshot() (restore func())
}

// Runner serializes transactions with a mutex, which gives fakes the same
// isolation a serializable database would. When fn fails or panics every
// registered store is restored to its state before the transaction.
type Runner struct {
	mu         sync.Mutex
	stores     []Snapshotter
	commitErrs []error

	// Commits counts successful transactions.
	Commits int
}

func NewRunner(stores ...Snapshotter) *Runner {
	return &Runner{stores: stores}
}

// FailCommits makes the next len(errs) transactions fail with errs after fn
// returns, the way a database reports a serialization failure at commit.
// Those transactions are rolled back.
func (r *Runner) FailCommits(errs ...error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commitErrs = append(r.commitErrs, errs...)
}

// Conn returns nil; fakes ignore the handle they are built with.
func (r *Runner) Conn() dbx.DBTX {
	return nil
}

func (r *Runner) InTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	restores := make([]func(), 0, len(r.stores))
	for _, s := range r.stores {
		restores = append(restores, s.Snapshot())
	}

	defer func() {
		if p := recover(); p != nil {
			for _, restore := range restores {
				restore()
			}
			panic(p)
		}
		if err != nil {
			for _, restore := range restores {
				restore()
			}
			return
		}
		r.Commits++
	}()

	err = fn(ctx, nil)
	if err == nil && len(r.commitErrs) > 0 {
		err = r.commitErrs[0]
		r.commitErrs = r.commitErrs[1:]
	}
	return err
}
