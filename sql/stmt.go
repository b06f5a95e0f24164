package sql

import (
	"context"
	"database/sql/driver"
)

// Compile-time interface checks.
var (
	_ driver.Stmt             = (*trackedStmt)(nil)
	_ driver.StmtExecContext  = (*trackedStmt)(nil)
	_ driver.StmtQueryContext = (*trackedStmt)(nil)
)

// trackedStmt wraps a driver.Stmt so executions run inside a
// TrackingOperation carrying the prepared query as payload.
type trackedStmt struct {
	stmt  driver.Stmt
	cfg   *config
	query string
}

// newTrackedStmt creates a new instrumented statement.
func newTrackedStmt(stmt driver.Stmt, cfg *config, query string) *trackedStmt {
	return &trackedStmt{
		stmt:  stmt,
		cfg:   cfg,
		query: query,
	}
}

// Close implements driver.Stmt.
func (s *trackedStmt) Close() error {
	return s.stmt.Close()
}

// NumInput implements driver.Stmt.
func (s *trackedStmt) NumInput() int {
	return s.stmt.NumInput()
}

// Exec implements driver.Stmt.
// Deprecated: use ExecContext. This exists for driver.Stmt interface compatibility.
func (s *trackedStmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.stmt.Exec(args) //nolint:staticcheck // Required for driver.Stmt interface
}

// Query implements driver.Stmt.
// Deprecated: use QueryContext. This exists for driver.Stmt interface compatibility.
func (s *trackedStmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.stmt.Query(args) //nolint:staticcheck // Required for driver.Stmt interface
}

// ExecContext implements driver.StmtExecContext.
func (s *trackedStmt) ExecContext(
	ctx context.Context,
	args []driver.NamedValue,
) (driver.Result, error) {
	op := newTrackingOperation(ctx, s.cfg, methodStmtExec, s.query)
	defer op.End()

	var result driver.Result
	var err error

	if execer, ok := s.stmt.(driver.StmtExecContext); ok {
		result, err = execer.ExecContext(op.Context(), args)
	} else {
		// Fallback to non-context version
		values := namedValueToValue(args)
		result, err = s.stmt.Exec(values) //nolint:staticcheck // Fallback for older drivers
	}

	if err != nil {
		op.RecordError(err)
		return nil, err
	}
	return result, nil
}

// QueryContext implements driver.StmtQueryContext.
func (s *trackedStmt) QueryContext(
	ctx context.Context,
	args []driver.NamedValue,
) (driver.Rows, error) {
	op := newTrackingOperation(ctx, s.cfg, methodStmtQuery, s.query)
	defer op.End()

	var rows driver.Rows
	var err error

	if queryer, ok := s.stmt.(driver.StmtQueryContext); ok {
		rows, err = queryer.QueryContext(op.Context(), args)
	} else {
		// Fallback to non-context version
		values := namedValueToValue(args)
		rows, err = s.stmt.Query(values) //nolint:staticcheck // Fallback for older drivers
	}

	if err != nil {
		op.RecordError(err)
		return nil, err
	}
	return rows, nil
}

// namedValueToValue converts NamedValues to plain Values for drivers
// that predate the context interfaces. Names are dropped.
func namedValueToValue(named []driver.NamedValue) []driver.Value {
	values := make([]driver.Value, len(named))
	for i, nv := range named {
		values[i] = nv.Value
	}
	return values
}
