package sql

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Method names used for span names and the go_sql_method tag.
const (
	methodConnPrepare = "go.sql.conn.prepare"
	methodConnBegin   = "go.sql.conn.begin"
	methodConnExec    = "go.sql.conn.exec"
	methodConnQuery   = "go.sql.conn.query"
	methodConnPing    = "go.sql.conn.ping"
	methodStmtExec    = "go.sql.stmt.exec"
	methodStmtQuery   = "go.sql.stmt.query"
	methodTxCommit    = "go.sql.tx.commit"
	methodTxRollback  = "go.sql.tx.rollback"
)

// Tracker creates TrackingOperations from one shared configuration.
// The zero-argument NewTracker resolves the global tracer and meter
// providers; tests inject their own via options.
type Tracker struct {
	cfg *config
}

// NewTracker returns a Tracker configured by opts.
func NewTracker(opts ...Option) *Tracker {
	return &Tracker{cfg: newConfig(opts...)}
}

// Start opens a TrackingOperation for one call of the named method.
func (t *Tracker) Start(ctx context.Context, method string) *TrackingOperation {
	return newTrackingOperation(ctx, t.cfg, method, "")
}

// StartWithQuery is Start with the call's SQL text as span payload.
// The text is attached to the span only when the AnnotateTracesWithSQL
// trace option is set; it never influences metrics.
func (t *Tracker) StartWithQuery(ctx context.Context, method, query string) *TrackingOperation {
	return newTrackingOperation(ctx, t.cfg, method, query)
}

// TrackingOperation couples the lifecycle of exactly one trace span to
// one latency data point. Create it at call start, RecordError on
// failure, and always End exactly once; End finalizes both.
//
// An operation belongs to the execution context of one tracked call and
// must not be shared for concurrent RecordError/End.
type TrackingOperation struct {
	ctx    context.Context
	span   trace.Span
	start  time.Time
	method string

	recordedError string
	errored       bool
	closed        bool

	cfg *config
}

func newTrackingOperation(ctx context.Context, cfg *config, method, query string) *TrackingOperation {
	attrs := cfg.baseAttributes()
	if query != "" {
		if op := extractOperation(query); op != "" {
			attrs = append(attrs, attribute.String("db.operation", op))
		}
		if cfg.TraceOptions.Has(AnnotateTracesWithSQL) {
			stmt := query
			if cfg.QuerySanitizer != nil {
				stmt = cfg.QuerySanitizer(stmt)
			}
			attrs = append(attrs, attribute.String("sql", stmt))
		}
	}

	start := time.Now()
	ctx, span := cfg.Tracer.Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return &TrackingOperation{
		ctx:    ctx,
		span:   span,
		start:  start,
		method: method,
		cfg:    cfg,
	}
}

// Context returns the operation's context, carrying its span. Pass it to
// nested calls so their spans become children of this operation.
func (op *TrackingOperation) Context() context.Context {
	return op.ctx
}

// WithSpan returns a copy of ctx with the operation's span as the active
// span, for propagating the span through a context the operation did not
// originate from.
func (op *TrackingOperation) WithSpan(ctx context.Context) context.Context {
	return trace.ContextWithSpan(ctx, op.span)
}

// RecordError stores the error's description as the recorded error and
// marks the span's status as failed. It does not end the span or emit
// data points; End does. Calling it again before End overwrites the
// previous description.
func (op *TrackingOperation) RecordError(err error) {
	if err == nil {
		return
	}

	op.recordedError = err.Error()
	op.errored = true
	op.span.RecordError(err)
	op.span.SetStatus(codes.Error, op.recordedError)
}

// End finalizes the operation: it records the elapsed milliseconds as
// one tagged data point and ends the span. Safe to call more than once;
// only the first call has any effect. The span is ended even if the
// backend panics while recording.
func (op *TrackingOperation) End() {
	if op.closed {
		return
	}

	defer func() {
		op.span.End()
		op.closed = true
	}()

	attrs := op.cfg.baseAttributes()
	attrs = append(attrs, keyMethod.String(op.method))
	if op.errored {
		attrs = append(attrs,
			keyError.String(SanitizeTagValue(op.recordedError)),
			keyStatus.String(statusError),
		)
	} else {
		attrs = append(attrs, keyStatus.String(statusOK))
		op.span.SetStatus(codes.Ok, "")
	}

	elapsedMs := float64(time.Since(op.start).Nanoseconds()) / 1e6
	op.cfg.Views.record(op.ctx, elapsedMs, attrs)
}

// baseAttributes returns the configured db.* attributes shared by all
// spans and data points.
func (cfg *config) baseAttributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 6)
	if cfg.DBSystem != "" {
		attrs = append(attrs, attribute.String("db.system", cfg.DBSystem))
	}
	if cfg.DBName != "" {
		attrs = append(attrs, attribute.String("db.name", cfg.DBName))
	}
	if cfg.InstanceName != "" {
		attrs = append(attrs, attribute.String("db.instance", cfg.InstanceName))
	}
	return attrs
}
