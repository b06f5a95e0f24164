package sql

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// View names registered with the stats backend. Both views aggregate the
// call-latency measure over the method/error/status tag keys.
const (
	viewClientLatency = "go.sql/client/latency"
	viewClientCalls   = "go.sql/client/calls"
)

// defaultMillisecondsDistribution holds the latency histogram bucket
// boundaries, in milliseconds, from sub-microsecond up to 500s.
var defaultMillisecondsDistribution = []float64{
	0.0, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5,
	1.0, 1.5, 2.0, 2.5, 5.0, 10.0, 25.0, 50.0,
	100.0, 200.0, 400.0, 600.0, 800.0,
	1000.0, 1500.0, 2000.0, 2500.0, 5000.0, 10000.0,
	20000.0, 40000.0, 100000.0, 200000.0, 500000.0,
}

// views holds the metric instruments a TrackingOperation records into.
type views struct {
	// Latency distribution in milliseconds
	latency metric.Float64Histogram

	// Number of tracked calls
	calls metric.Int64Counter
}

// newViews creates the two standard views on the given meter. Creating
// the identical instruments on the same meter again returns the same
// instruments without error, so registration is idempotent; a mismatched
// redefinition surfaces the meter's error.
func newViews(meter metric.Meter) (*views, error) {
	v := &views{}
	var err error

	v.latency, err = meter.Float64Histogram(
		viewClientLatency,
		metric.WithDescription("The distribution of the latencies of various calls in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(defaultMillisecondsDistribution...),
	)
	if err != nil {
		return nil, err
	}

	v.calls, err = meter.Int64Counter(
		viewClientCalls,
		metric.WithDescription("The number of various calls of methods"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return v, nil
}

// record emits one latency data point and one call count with the given
// tag set.
func (v *views) record(ctx context.Context, latencyMs float64, attrs []attribute.KeyValue) {
	if v == nil || v.latency == nil {
		return
	}

	opt := metric.WithAttributes(attrs...)
	v.latency.Record(ctx, latencyMs, opt)

	if v.calls != nil {
		v.calls.Add(ctx, 1, opt)
	}
}

// RegisterAllViews registers the latency-distribution and call-count
// views with the global meter provider. Call it once at startup, before
// the first tracked call.
func RegisterAllViews() error {
	return RegisterAllViewsWith(otel.GetMeterProvider().Meter(scope))
}

// RegisterAllViewsWith registers the standard views with an explicit
// meter. Registering the identical views twice is a no-op.
func RegisterAllViewsWith(meter metric.Meter) error {
	_, err := newViews(meter)
	return err
}
