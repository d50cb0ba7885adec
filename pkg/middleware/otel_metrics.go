package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/dodkit"
	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/internal/telemetry/attrs"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for service invocations.
type OTelMetricsMiddleware struct {
	next  dodkit.Service
	meter metric.Meter

	// instruments
	calls     metric.Int64Counter
	durations metric.Float64Histogram
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware(next dodkit.Service, meter metric.Meter) (dodkit.Service, error) {
	calls, err := meter.Int64Counter("dodkit.calls")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	durations, err := meter.Float64Histogram("dodkit.duration.ms")
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}

	return &OTelMetricsMiddleware{next: next, meter: meter, calls: calls, durations: durations}, nil
}

// Name returns the name of the wrapped service.
func (mw *OTelMetricsMiddleware) Name() string { return mw.next.Name() }

// Invoke implements Service.Invoke with metrics.
func (mw *OTelMetricsMiddleware) Invoke(ctx context.Context, args ...any) (any, error) {
	start := time.Now()
	v, err := mw.next.Invoke(ctx, args...)
	mw.rec(ctx, start,
		attribute.Int(attrs.AttrArgsCount, len(args)),
		attribute.Bool(attrs.AttrError, err != nil),
		attribute.Bool(attrs.AttrRejected, errors.Is(err, sentinel.ErrCallLimitExceeded)))

	return v, err
}

// rec records call count and duration with attributes.
func (mw *OTelMetricsMiddleware) rec(ctx context.Context, start time.Time, attributes ...attribute.KeyValue) {
	base := []attribute.KeyValue{attribute.String(attrs.AttrService, mw.next.Name())}
	if len(attributes) > 0 {
		base = append(base, attributes...)
	}

	mw.calls.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Microseconds())/1000, metric.WithAttributes(base...))
}
