// Package database opens the tracked Postgres connection and holds the
// demo operations the example loops over.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/halcyon-labs/sqltrack/example/sql/internal/config"
	tracksql "github.com/halcyon-labs/sqltrack/sql"
	_ "github.com/lib/pq" // postgres driver
)

// DB wraps the tracked database connection.
type DB struct {
	*sql.DB
}

// New opens a Postgres connection through the tracking driver wrapper.
// Every call made through the returned handle produces a span and a
// latency recording.
func New(ctx context.Context) (*DB, error) {
	db, err := tracksql.Open("postgres", config.DefaultDSN,
		tracksql.WithDBSystem(config.DefaultDBSystem),
		tracksql.WithDBName(config.DefaultDBName),
		tracksql.WithInstanceName(config.DefaultInstance),
		tracksql.WithQuerySanitizer(tracksql.DefaultQuerySanitizer),
		tracksql.WithTraceOptions(tracksql.AnnotateTracesWithSQL),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(config.DefaultMaxOpen)
	db.SetMaxIdleConns(config.DefaultMaxIdle)
	db.SetConnMaxLifetime(time.Duration(config.DefaultMaxLifetimeSeconds) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(config.DefaultMaxIdleTimeSeconds) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{DB: db}, nil
}
