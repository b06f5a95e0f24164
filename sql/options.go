package sql

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// scope is the instrumentation scope name for OpenTelemetry.
	// This identifies the library in traces and metrics.
	scope = "github.com/halcyon-labs/sqltrack/sql"
)

// TraceOptions is a flag set controlling what gets attached to spans.
type TraceOptions uint32

const (
	// AnnotateTracesWithSQL permits attaching the SQL text of a tracked
	// call to its span. Absent by default: query text may contain
	// sensitive literals.
	AnnotateTracesWithSQL TraceOptions = 1 << iota
)

// Has reports whether every flag in opt is present in the set.
func (o TraceOptions) Has(opt TraceOptions) bool {
	return o&opt == opt
}

// config holds the configuration for instrumentation.
type config struct {
	// TracerProvider is the tracer provider to use.
	// If not set, uses the global provider via otel.GetTracerProvider().
	// When no global provider is configured, a no-op tracer is used.
	TracerProvider trace.TracerProvider

	// MeterProvider is the meter provider to use.
	// If not set, uses the global provider via otel.GetMeterProvider().
	// When no global provider is configured, a no-op meter is used.
	MeterProvider metric.MeterProvider

	// Tracer is the tracer instance created from TracerProvider.
	Tracer trace.Tracer

	// Views holds the metric instruments data points are recorded into.
	Views *views

	// TraceOptions controls span annotation, see AnnotateTracesWithSQL.
	TraceOptions TraceOptions

	// DBSystem identifies the database management system product.
	// Examples: "postgresql", "mysql", "sqlite"
	DBSystem string

	// DBName is the name of the database being accessed.
	DBName string

	// InstanceName identifies a specific database connection instance,
	// such as "primary" or "replica", added as the "db.instance"
	// attribute on spans and data points.
	InstanceName string

	// QuerySanitizer sanitizes SQL text before it is attached to spans.
	// Only consulted when AnnotateTracesWithSQL is set. If nil, the text
	// is attached as-is.
	QuerySanitizer func(query string) string

	// Logger receives diagnostic events (driver registration, view
	// registration). Defaults to a nop logger.
	Logger zerolog.Logger
}

// newConfig creates a new config with defaults and applies options.
func newConfig(opts ...Option) *config {
	cfg := &config{
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cfg.Tracer = cfg.TracerProvider.Tracer(scope)

	// A view-registration failure here is a configuration bug; tracked
	// calls still trace, they just stop producing data points.
	var err error
	cfg.Views, err = newViews(cfg.MeterProvider.Meter(scope))
	if err != nil {
		cfg.Logger.Error().Err(err).Msg("sqltrack: view registration failed, metrics disabled")
	}

	return cfg
}

// Option configures the instrumentation.
type Option func(*config)

// WithTracerProvider sets a custom tracer provider.
// If not called, the global provider from otel.GetTracerProvider() is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.TracerProvider = tp
	}
}

// WithMeterProvider sets a custom meter provider.
// If not called, the global provider from otel.GetMeterProvider() is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.MeterProvider = mp
	}
}

// WithTraceOptions sets the trace option flag set.
//
// Example:
//
//	db, _ := tracksql.Open("postgres", dsn,
//	    tracksql.WithTraceOptions(tracksql.AnnotateTracesWithSQL),
//	)
func WithTraceOptions(opts TraceOptions) Option {
	return func(cfg *config) {
		cfg.TraceOptions = opts
	}
}

// WithDBSystem sets the database system identifier, added as the
// "db.system" attribute on all spans and data points.
//
// Common values: "postgresql", "mysql", "sqlite", "mssql", "oracle".
func WithDBSystem(system string) Option {
	return func(cfg *config) {
		cfg.DBSystem = system
	}
}

// WithDBName sets the database name being accessed, added as the
// "db.name" attribute on all spans and data points.
func WithDBName(name string) Option {
	return func(cfg *config) {
		cfg.DBName = name
	}
}

// WithInstanceName sets an identifier for this specific database
// connection, added as the "db.instance" attribute. Use it to tell apart
// connections to the same database, such as "primary" vs "replica".
func WithInstanceName(name string) Option {
	return func(cfg *config) {
		cfg.InstanceName = name
	}
}

// WithQuerySanitizer sets a sanitizer applied to SQL text before it is
// attached to spans. Use DefaultQuerySanitizer for a basic implementation
// that masks string, numeric and hex literals.
//
// The sanitizer only runs when AnnotateTracesWithSQL is set; without the
// flag no SQL text reaches spans at all.
func WithQuerySanitizer(fn func(string) string) Option {
	return func(cfg *config) {
		cfg.QuerySanitizer = fn
	}
}

// WithLogger sets the diagnostic logger. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = logger
	}
}
