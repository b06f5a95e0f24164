package sql

import (
	"context"
	"database/sql/driver"
)

// Compile-time interface check.
var _ driver.Tx = (*trackedTx)(nil)

// trackedTx wraps a driver.Tx so commit and rollback are tracked.
type trackedTx struct {
	tx  driver.Tx
	cfg *config
}

// newTrackedTx creates a new instrumented transaction.
func newTrackedTx(tx driver.Tx, cfg *config) *trackedTx {
	return &trackedTx{
		tx:  tx,
		cfg: cfg,
	}
}

// Commit implements driver.Tx.
func (t *trackedTx) Commit() error {
	// driver.Tx carries no context; the span is a root span.
	op := newTrackingOperation(context.Background(), t.cfg, methodTxCommit, "")
	defer op.End()

	if err := t.tx.Commit(); err != nil {
		op.RecordError(err)
		return err
	}
	return nil
}

// Rollback implements driver.Tx.
func (t *trackedTx) Rollback() error {
	op := newTrackingOperation(context.Background(), t.cfg, methodTxRollback, "")
	defer op.End()

	if err := t.tx.Rollback(); err != nil {
		op.RecordError(err)
		return err
	}
	return nil
}
