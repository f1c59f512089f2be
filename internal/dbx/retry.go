package dbx

import (
	"context"
	"fmt"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/sethvargo/go-retry"
)

const defaultRetryBackoff = 10 * time.Millisecond

// RetryRunner reruns transactions that lost a serialization race on the
// wrapped runner.
type RetryRunner struct {
	inner   TxRunner
	retries uint64
	backoff time.Duration
}

// NewRetryRunner wraps inner. A non-positive backoff uses a 10ms default.
func NewRetryRunner(inner TxRunner, retries uint64, backoff time.Duration) *RetryRunner {
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	return &RetryRunner{inner: inner, retries: retries, backoff: backoff}
}

func (r *RetryRunner) Conn() DBTX {
	return r.inner.Conn()
}

// InTx runs fn in a fresh transaction per attempt. fn must not keep state
// between attempts other than what it rebuilds from scratch.
func (r *RetryRunner) InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return Retry(ctx, r.retries, r.backoff, func(ctx context.Context) error {
		return r.inner.InTx(ctx, fn)
	})
}

// Retry calls fn until it succeeds, fails with an error IsRetryable rejects,
// or retries run out. The last case returns an error wrapping
// common.ErrConflict.
func Retry(ctx context.Context, retries uint64, backoff time.Duration, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(retries, retry.NewConstant(backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if IsRetryable(err) {
		return fmt.Errorf("%w: concurrent update, try again (%v)", common.ErrConflict, err)
	}
	return err
}
