// Package sqlx instruments jmoiron/sqlx with the tracking primitive
// from github.com/halcyon-labs/sqltrack/sql: every wrapped call runs
// inside a TrackingOperation, so it emits one trace span and one tagged
// latency data point.
//
// # Quick Start
//
//	import tracksqlx "github.com/halcyon-labs/sqltrack/sqlx"
//
//	db, err := tracksqlx.Connect(ctx, "postgres", dsn,
//	    tracksql.WithDBSystem("postgresql"),
//	    tracksql.WithDBName("myapp"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	var user User
//	err = db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
//
// Options are the sql package's options; the two packages share one
// configuration surface.
//
// Use this package with a plain (unwrapped) driver. Combining it with a
// driver wrapped by tracksql.Open double-counts every call.
package sqlx
