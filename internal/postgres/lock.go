package postgres

import (
	"context"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/lock"
)

// AdvisoryLocker serializes work on a key with a transaction scoped advisory
// lock. The lock is released by postgres when the surrounding transaction
// ends, so the returned release func is a no-op.
type AdvisoryLocker struct {
	db *DB
}

func NewAdvisoryLocker(db *DB) lock.Locker {
	return &AdvisoryLocker{db: db}
}

func (l *AdvisoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	if _, ok := GetTx(ctx); !ok {
		return nil, ierr.NewError("advisory lock requires a transaction").
			WithReportableDetails(map[string]any{"key": key}).
			Mark(ierr.ErrSystem)
	}

	if _, err := l.db.GetQuerier(ctx).ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to acquire resource lock").
			WithReportableDetails(map[string]any{"key": key}).
			Mark(ierr.ErrDatabase)
	}
	return func() {}, nil
}
