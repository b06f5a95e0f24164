// Package sql instruments database/sql calls with OpenTelemetry tracing
// and latency metrics.
//
// Every tracked call is bound to a TrackingOperation: a trace span and a
// latency data point that are always finalized together, tagged with the
// method name, the outcome status and (on failure) a sanitized error
// description.
//
// # Quick Start
//
// Open a database connection with instrumentation:
//
//	import tracksql "github.com/halcyon-labs/sqltrack/sql"
//
//	if err := tracksql.RegisterAllViews(); err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := tracksql.Open("postgres", dsn,
//	    tracksql.WithDBSystem("postgresql"),
//	    tracksql.WithDBName("myapp"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Use like standard *sql.DB
//	rows, err := db.QueryContext(ctx, "SELECT * FROM users")
//
// # Driver Registration
//
// For more control, register a wrapped driver:
//
//	driver := tracksql.WrapDriver(pq.Driver{},
//	    tracksql.WithDBSystem("postgresql"),
//	)
//	sql.Register("postgres-tracked", driver)
//
//	db, _ := sql.Open("postgres-tracked", dsn)
//
// # Tracking Arbitrary Calls
//
// The tracking primitive is exported for callers that wrap their own
// database-access layer:
//
//	tracker := tracksql.NewTracker(tracksql.WithDBSystem("postgresql"))
//
//	op := tracker.StartWithQuery(ctx, "store.users.load", query)
//	err := loadUsers(op.Context())
//	if err != nil {
//	    op.RecordError(err)
//	}
//	op.End()
//
// # Query Text in Spans
//
// SQL text is withheld from spans by default because it may contain
// sensitive literals. Opt in with the AnnotateTracesWithSQL trace option,
// optionally combined with a sanitizer:
//
//	db, _ := tracksql.Open("postgres", dsn,
//	    tracksql.WithTraceOptions(tracksql.AnnotateTracesWithSQL),
//	    tracksql.WithQuerySanitizer(tracksql.DefaultQuerySanitizer),
//	)
//
// # Observability
//
// The wrapper automatically emits:
//
// Traces:
//   - Span per tracked call, named after the method
//   - Attributes: db.system, db.name, db.instance, db.operation, sql
//
// Metrics:
//   - go.sql/client/latency (millisecond histogram by method/error/status)
//   - go.sql/client/calls (call count by method/error/status)
package sql
