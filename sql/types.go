package sql

import (
	"context"
	"database/sql/driver"
)

// DriverConn represents a fully context-capable database connection,
// used by tests to build fakes.
type DriverConn interface {
	driver.Conn
	driver.ConnPrepareContext
	driver.ConnBeginTx
	driver.ExecerContext
	driver.QueryerContext
	driver.Pinger
}

// DriverStmt represents a context-capable prepared statement.
type DriverStmt interface {
	driver.Stmt
	driver.StmtExecContext
	driver.StmtQueryContext
}

// DriverConnector represents a driver connector for testing.
type DriverConnector interface {
	Connect(ctx context.Context) (driver.Conn, error)
	Driver() driver.Driver
}
