package sql

import (
	"context"
	"database/sql/driver"
	"io"
)

// fakeConn is a hand-rolled DriverConn with canned errors, used where a
// real driver would be overkill.
type fakeConn struct {
	prepareErr error
	beginErr   error
	execErr    error
	queryErr   error
	pingErr    error
	closeErr   error

	tx fakeTx
}

var _ DriverConn = (*fakeConn)(nil)

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	return &fakeStmt{query: query, execErr: c.execErr, queryErr: c.queryErr}, nil
}

func (c *fakeConn) PrepareContext(_ context.Context, query string) (driver.Stmt, error) {
	return c.Prepare(query)
}

func (c *fakeConn) Close() error {
	return c.closeErr
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	return &c.tx, nil
}

func (c *fakeConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return c.Begin()
}

func (c *fakeConn) ExecContext(context.Context, string, []driver.NamedValue) (driver.Result, error) {
	if c.execErr != nil {
		return nil, c.execErr
	}
	return driver.RowsAffected(1), nil
}

func (c *fakeConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return &fakeRows{}, nil
}

func (c *fakeConn) Ping(context.Context) error {
	return c.pingErr
}

// legacyConn implements only the pre-context driver.Conn surface.
type legacyConn struct {
	prepareErr error
	beginErr   error
}

var _ driver.Conn = (*legacyConn)(nil)

func (c *legacyConn) Prepare(query string) (driver.Stmt, error) {
	if c.prepareErr != nil {
		return nil, c.prepareErr
	}
	return &legacyStmt{query: query}, nil
}

func (c *legacyConn) Close() error { return nil }

func (c *legacyConn) Begin() (driver.Tx, error) {
	if c.beginErr != nil {
		return nil, c.beginErr
	}
	return &fakeTx{}, nil
}

// fakeStmt is a context-capable statement.
type fakeStmt struct {
	query    string
	execErr  error
	queryErr error
}

var _ DriverStmt = (*fakeStmt)(nil)

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }

func (s *fakeStmt) Exec([]driver.Value) (driver.Result, error) {
	if s.execErr != nil {
		return nil, s.execErr
	}
	return driver.RowsAffected(1), nil
}

func (s *fakeStmt) Query([]driver.Value) (driver.Rows, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &fakeRows{}, nil
}

func (s *fakeStmt) ExecContext(_ context.Context, args []driver.NamedValue) (driver.Result, error) {
	return s.Exec(namedValueToValue(args))
}

func (s *fakeStmt) QueryContext(_ context.Context, args []driver.NamedValue) (driver.Rows, error) {
	return s.Query(namedValueToValue(args))
}

// legacyStmt has no context methods, forcing the fallback path.
type legacyStmt struct {
	query    string
	execErr  error
	queryErr error

	gotArgs []driver.Value
}

var _ driver.Stmt = (*legacyStmt)(nil)

func (s *legacyStmt) Close() error  { return nil }
func (s *legacyStmt) NumInput() int { return -1 }

func (s *legacyStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.gotArgs = args
	if s.execErr != nil {
		return nil, s.execErr
	}
	return driver.RowsAffected(1), nil
}

func (s *legacyStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.gotArgs = args
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &fakeRows{}, nil
}

type fakeTx struct {
	commitErr   error
	rollbackErr error

	commits   int
	rollbacks int
}

var _ driver.Tx = (*fakeTx)(nil)

func (t *fakeTx) Commit() error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return t.rollbackErr
}

type fakeRows struct{}

var _ driver.Rows = (*fakeRows)(nil)

func (r *fakeRows) Columns() []string         { return nil }
func (r *fakeRows) Close() error              { return nil }
func (r *fakeRows) Next([]driver.Value) error { return io.EOF }

// testDriver returns a fixed connection from Open.
type testDriver struct {
	conn    driver.Conn
	openErr error
}

var _ driver.Driver = (*testDriver)(nil)

func (d *testDriver) Open(_ string) (driver.Conn, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.conn, nil
}
