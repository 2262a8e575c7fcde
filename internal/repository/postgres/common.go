package postgres

import (
	"context"
	"database/sql"
	"errors"

	ierr "github.com/flexprice/paymirror/internal/errors"
	"github.com/flexprice/paymirror/internal/postgres"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// get loads one row into dest and maps sql.ErrNoRows onto ErrNotFound
func get(ctx context.Context, db *postgres.DB, dest interface{}, entity, key, query string, args ...interface{}) error {
	err := db.GetQuerier(ctx).GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ierr.NewErrorf("%s %s not found", entity, key).
			WithHintf("No %s is recorded for %s", entity, key).
			WithReportableDetails(map[string]any{entity + "_id": key}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return dbError(err, "Failed to load "+entity)
	}
	return nil
}

// exec runs a named statement. Unique violations are reported as
// ErrAlreadyExists, every other driver failure as ErrDatabase.
func exec(ctx context.Context, db *postgres.DB, entity, query string, arg interface{}) (sql.Result, error) {
	res, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ierr.WithError(err).
				WithHintf("The %s is already recorded", entity).
				WithReportableDetails(map[string]any{"constraint": pqErr.Constraint}).
				Mark(ierr.ErrAlreadyExists)
		}
		return nil, dbError(err, "Failed to write "+entity)
	}
	return res, nil
}

// update runs a named UPDATE and requires it to touch a row
func update(ctx context.Context, db *postgres.DB, entity, id, query string, arg interface{}) error {
	res, err := exec(ctx, db, entity, query, arg)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err, "Failed to write "+entity)
	}
	if n == 0 {
		return ierr.NewErrorf("%s %s not found", entity, id).
			WithHintf("The %s to update does not exist", entity).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func dbError(err error, hint string) error {
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}
