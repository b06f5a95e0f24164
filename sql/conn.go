package sql

import (
	"context"
	"database/sql/driver"
)

// Compile-time interface checks.
var (
	_ driver.Conn               = (*trackedConn)(nil)
	_ driver.ConnPrepareContext = (*trackedConn)(nil)
	_ driver.ConnBeginTx        = (*trackedConn)(nil)
	_ driver.ExecerContext      = (*trackedConn)(nil)
	_ driver.QueryerContext     = (*trackedConn)(nil)
	_ driver.Pinger             = (*trackedConn)(nil)
	_ driver.SessionResetter    = (*trackedConn)(nil)
	_ driver.Validator          = (*trackedConn)(nil)
)

// trackedConn wraps a driver.Conn so every context-capable call runs
// inside a TrackingOperation.
type trackedConn struct {
	conn driver.Conn
	cfg  *config
}

// newTrackedConn creates a new instrumented connection.
func newTrackedConn(conn driver.Conn, cfg *config) *trackedConn {
	return &trackedConn{
		conn: conn,
		cfg:  cfg,
	}
}

// Prepare implements driver.Conn.
// Deprecated: use PrepareContext. This exists for driver.Conn interface compatibility.
func (c *trackedConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return newTrackedStmt(stmt, c.cfg, query), nil
}

// Close implements driver.Conn.
func (c *trackedConn) Close() error {
	return c.conn.Close()
}

// Begin implements driver.Conn.
// Deprecated: use BeginTx. This exists for driver.Conn interface compatibility.
func (c *trackedConn) Begin() (driver.Tx, error) {
	tx, err := c.conn.Begin() //nolint:staticcheck // Required for driver.Conn interface
	if err != nil {
		return nil, err
	}
	return newTrackedTx(tx, c.cfg), nil
}

// PrepareContext implements driver.ConnPrepareContext.
func (c *trackedConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	op := newTrackingOperation(ctx, c.cfg, methodConnPrepare, query)
	defer op.End()

	var stmt driver.Stmt
	var err error

	if preparer, ok := c.conn.(driver.ConnPrepareContext); ok {
		stmt, err = preparer.PrepareContext(op.Context(), query)
	} else {
		stmt, err = c.conn.Prepare(query)
	}

	if err != nil {
		op.RecordError(err)
		return nil, err
	}
	return newTrackedStmt(stmt, c.cfg, query), nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *trackedConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	op := newTrackingOperation(ctx, c.cfg, methodConnBegin, "")
	defer op.End()

	var tx driver.Tx
	var err error

	if beginner, ok := c.conn.(driver.ConnBeginTx); ok {
		tx, err = beginner.BeginTx(op.Context(), opts)
	} else {
		tx, err = c.conn.Begin() //nolint:staticcheck // Fallback for older drivers
	}

	if err != nil {
		op.RecordError(err)
		return nil, err
	}
	return newTrackedTx(tx, c.cfg), nil
}

// ExecContext implements driver.ExecerContext.
func (c *trackedConn) ExecContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Result, error) {
	execer, ok := c.conn.(driver.ExecerContext)
	if !ok {
		// Let database/sql fall back to prepare-and-execute; the
		// statement path tracks it instead.
		return nil, driver.ErrSkip
	}

	op := newTrackingOperation(ctx, c.cfg, methodConnExec, query)
	defer op.End()

	result, err := execer.ExecContext(op.Context(), query, args)
	if err != nil {
		op.RecordError(err)
		return nil, err
	}
	return result, nil
}

// QueryContext implements driver.QueryerContext.
func (c *trackedConn) QueryContext(
	ctx context.Context,
	query string,
	args []driver.NamedValue,
) (driver.Rows, error) {
	queryer, ok := c.conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}

	op := newTrackingOperation(ctx, c.cfg, methodConnQuery, query)
	defer op.End()

	rows, err := queryer.QueryContext(op.Context(), query, args)
	if err != nil {
		op.RecordError(err)
		return nil, err
	}
	return rows, nil
}

// Ping implements driver.Pinger.
func (c *trackedConn) Ping(ctx context.Context) error {
	op := newTrackingOperation(ctx, c.cfg, methodConnPing, "")
	defer op.End()

	var err error
	if pinger, ok := c.conn.(driver.Pinger); ok {
		err = pinger.Ping(op.Context())
	}

	if err != nil {
		op.RecordError(err)
		return err
	}
	return nil
}

// ResetSession implements driver.SessionResetter.
func (c *trackedConn) ResetSession(ctx context.Context) error {
	if resetter, ok := c.conn.(driver.SessionResetter); ok {
		return resetter.ResetSession(ctx)
	}
	return nil
}

// IsValid implements driver.Validator.
func (c *trackedConn) IsValid() bool {
	if validator, ok := c.conn.(driver.Validator); ok {
		return validator.IsValid()
	}
	return true
}
