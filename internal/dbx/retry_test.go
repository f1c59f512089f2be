package dbx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRunner fails InTx with the queued errors, then succeeds.
type scriptedRunner struct {
	errs  []error
	calls int
}

func (s *scriptedRunner) Conn() DBTX { return nil }

func (s *scriptedRunner) InTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return err
	}
	return fn(ctx, nil)
}

func TestRetryRunner_RetriesSerializationFailures(t *testing.T) {
	inner := &scriptedRunner{errs: []error{&pq.Error{Code: "40001"}, &pq.Error{Code: "40P01"}}}
	r := NewRetryRunner(inner, 3, time.Millisecond)

	ran := 0
	err := r.InTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		ran++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, 1, ran)
}

func TestRetryRunner_ExhaustedIsConflict(t *testing.T) {
	serial := &pq.Error{Code: "40001"}
	inner := &scriptedRunner{errs: []error{serial, serial, serial}}
	r := NewRetryRunner(inner, 2, time.Millisecond)

	err := r.InTx(context.Background(), func(ctx context.Context, tx DBTX) error { return nil })
	require.ErrorIs(t, err, common.ErrConflict)
	assert.False(t, IsRetryable(err))
	assert.Equal(t, 3, inner.calls)
}

func TestRetryRunner_OtherErrorsAreNotRetried(t *testing.T) {
	inner := &scriptedRunner{}
	r := NewRetryRunner(inner, 5, 0)

	err := r.InTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		return common.ErrInsufficientStock
	})
	require.ErrorIs(t, err, common.ErrInsufficientStock)
	assert.Equal(t, 1, inner.calls)

	unique := &pq.Error{Code: "23505"}
	err = r.InTx(context.Background(), func(ctx context.Context, tx DBTX) error { return unique })
	assert.True(t, errors.Is(err, unique))
	assert.Equal(t, 2, inner.calls)
}

func TestRetryRunner_Conn(t *testing.T) {
	db := setupDB(t)
	r := NewRetryRunner(NewSQLRunner(db), 1, time.Millisecond)
	assert.Equal(t, DBTX(db), r.Conn())
}
