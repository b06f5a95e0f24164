package sqlx

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	tracksql "github.com/halcyon-labs/sqltrack/sql"
)

// Method names used for span names and the go_sql_method tag.
const (
	methodGet        = "go.sqlx.get"
	methodSelect     = "go.sqlx.select"
	methodExec       = "go.sqlx.exec"
	methodQuery      = "go.sqlx.query"
	methodNamedExec  = "go.sqlx.named_exec"
	methodNamedQuery = "go.sqlx.named_query"
	methodPing       = "go.sqlx.ping"
	methodBegin      = "go.sqlx.begin"
	methodTxCommit   = "go.sqlx.tx.commit"
	methodTxRollback = "go.sqlx.tx.rollback"
	methodTxGet      = "go.sqlx.tx.get"
	methodTxSelect   = "go.sqlx.tx.select"
	methodTxExec     = "go.sqlx.tx.exec"
)

// DB wraps *sqlx.DB so the sqlx-specific verbs (Get, Select, named
// queries) are tracked. Methods promoted from the embedded *sqlx.DB
// remain available untracked.
type DB struct {
	*sqlx.DB
	tracker *tracksql.Tracker
}

// Open opens a database connection with instrumentation.
//
// Example:
//
//	db, err := tracksqlx.Open("postgres", dsn,
//	    tracksql.WithDBSystem("postgresql"),
//	    tracksql.WithDBName("mydb"),
//	)
func Open(driverName, dsn string, opts ...tracksql.Option) (*DB, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{DB: db, tracker: tracksql.NewTracker(opts...)}, nil
}

// Connect opens and verifies a database connection. It is equivalent to
// Open followed by Ping.
func Connect(ctx context.Context, driverName, dsn string, opts ...tracksql.Option) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{DB: db, tracker: tracksql.NewTracker(opts...)}, nil
}

// NewDB wraps an existing *sql.DB with sqlx and instrumentation.
//
// Example:
//
//	sqlDB, _ := sql.Open("postgres", dsn)
//	db := tracksqlx.NewDB(sqlDB, "postgres",
//	    tracksql.WithDBSystem("postgresql"),
//	)
func NewDB(db *sql.DB, driverName string, opts ...tracksql.Option) *DB {
	return &DB{
		DB:      sqlx.NewDb(db, driverName),
		tracker: tracksql.NewTracker(opts...),
	}
}

// MustOpen is like Open but panics on error.
func MustOpen(driverName, dsn string, opts ...tracksql.Option) *DB {
	db, err := Open(driverName, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// MustConnect is like Connect but panics on error.
func MustConnect(ctx context.Context, driverName, dsn string, opts ...tracksql.Option) *DB {
	db, err := Connect(ctx, driverName, dsn, opts...)
	if err != nil {
		panic(err)
	}
	return db
}

// GetContext executes a query expected to return at most one row and
// scans the result into dest.
func (db *DB) GetContext(
	ctx context.Context,
	dest interface{},
	query string,
	args ...interface{},
) error {
	op := db.tracker.StartWithQuery(ctx, methodGet, query)
	defer op.End()

	err := db.DB.GetContext(op.Context(), dest, query, args...)
	if err != nil {
		op.RecordError(err)
	}
	return err
}

// SelectContext executes a query and scans all results into dest.
func (db *DB) SelectContext(
	ctx context.Context,
	dest interface{},
	query string,
	args ...interface{},
) error {
	op := db.tracker.StartWithQuery(ctx, methodSelect, query)
	defer op.End()

	err := db.DB.SelectContext(op.Context(), dest, query, args...)
	if err != nil {
		op.RecordError(err)
	}
	return err
}

// ExecContext executes a query without returning rows.
func (db *DB) ExecContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (sql.Result, error) {
	op := db.tracker.StartWithQuery(ctx, methodExec, query)
	defer op.End()

	result, err := db.DB.ExecContext(op.Context(), query, args...)
	if err != nil {
		op.RecordError(err)
	}
	return result, err
}

// QueryxContext executes a query returning *sqlx.Rows.
func (db *DB) QueryxContext(
	ctx context.Context,
	query string,
	args ...interface{},
) (*sqlx.Rows, error) {
	op := db.tracker.StartWithQuery(ctx, methodQuery, query)
	defer op.End()

	rows, err := db.DB.QueryxContext(op.Context(), query, args...)
	if err != nil {
		op.RecordError(err)
	}
	return rows, err
}

// NamedExecContext executes a named query without returning rows.
func (db *DB) NamedExecContext(
	ctx context.Context,
	query string,
	arg interface{},
) (sql.Result, error) {
	op := db.tracker.StartWithQuery(ctx, methodNamedExec, query)
	defer op.End()

	result, err := db.DB.NamedExecContext(op.Context(), query, arg)
	if err != nil {
		op.RecordError(err)
	}
	return result, err
}

// NamedQueryContext executes a named query returning *sqlx.Rows.
func (db *DB) NamedQueryContext(
	ctx context.Context,
	query string,
	arg interface{},
) (*sqlx.Rows, error) {
	op := db.tracker.StartWithQuery(ctx, methodNamedQuery, query)
	defer op.End()

	rows, err := db.DB.NamedQueryContext(op.Context(), query, arg)
	if err != nil {
		op.RecordError(err)
	}
	return rows, err
}

// PingContext verifies the connection to the database is still alive.
func (db *DB) PingContext(ctx context.Context) error {
	op := db.tracker.Start(ctx, methodPing)
	defer op.End()

	err := db.DB.PingContext(op.Context())
	if err != nil {
		op.RecordError(err)
	}
	return err
}

// BeginTxx begins a tracked transaction.
func (db *DB) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	op := db.tracker.Start(ctx, methodBegin)
	defer op.End()

	tx, err := db.DB.BeginTxx(op.Context(), opts)
	if err != nil {
		op.RecordError(err)
		return nil, err
	}
	return &Tx{Tx: tx, tracker: db.tracker}, nil
}

// Beginx begins a tracked transaction with default options.
func (db *DB) Beginx() (*Tx, error) {
	return db.BeginTxx(context.Background(), nil)
}

// Unsafe returns a DB whose queries scan into structs with missing
// fields, preserving instrumentation.
func (db *DB) Unsafe() *DB {
	return &DB{
		DB:      db.DB.Unsafe(),
		tracker: db.tracker,
	}
}
