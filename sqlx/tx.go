package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	tracksql "github.com/halcyon-labs/sqltrack/sql"
)

// Tx wraps *sqlx.Tx so the sqlx verbs and the commit/rollback boundary
// are tracked.
type Tx struct {
	*sqlx.Tx
	tracker *tracksql.Tracker
}

// GetContext executes a query within the transaction, expected to
// return at most one row, and scans the result into dest.
func (tx *Tx) GetContext(
	ctx context.Context,
	dest interface{},
	query string,
	args ...interface{},
) error {
	op := tx.tracker.StartWithQuery(ctx, methodTxGet, query)
	defer op.End()

	err := tx.Tx.GetContext(op.Context(), dest, query, args...)
	if err != nil {
		op.RecordError(err)
	}
	return err
}

// SelectContext executes a query within the transaction and scans all
// results into dest.
func (tx *Tx) SelectContext(
	ctx context.Context,
	dest interface{},
	query string,
	args ...interface{},
) error {
	op := tx.tracker.StartWithQuery(ctx, methodTxSelect, query)
	defer op.End()

	err := tx.Tx.SelectContext(op.Context(), dest, query, args...)
	if err != nil {
		op.RecordError(err)
	}
	return err
}

// ExecContext executes a query within the transaction without returning
// rows.
func (tx *Tx) ExecContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (sql.Result, error) {
	op := tx.tracker.StartWithQuery(ctx, methodTxExec, query)
	defer op.End()

	result, err := tx.Tx.ExecContext(op.Context(), query, args...)
	if err != nil {
		op.RecordError(err)
	}
	return result, err
}

// Commit commits the transaction.
func (tx *Tx) Commit() error {
	op := tx.tracker.Start(context.Background(), methodTxCommit)
	defer op.End()

	err := tx.Tx.Commit()
	if err != nil {
		op.RecordError(err)
	}
	return err
}

// Rollback aborts the transaction.
func (tx *Tx) Rollback() error {
	op := tx.tracker.Start(context.Background(), methodTxRollback)
	defer op.End()

	err := tx.Tx.Rollback()
	if err != nil {
		op.RecordError(err)
	}
	return err
}
