package middleware

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/dodkit"
	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/internal/telemetry/attrs"
)

// OTelTracingMiddleware wraps dodkit.Service invocations with OpenTelemetry spans.
type OTelTracingMiddleware struct {
	next   dodkit.Service
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*OTelTracingMiddleware)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(m *OTelTracingMiddleware) { m.commonAttrs = append(m.commonAttrs, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
func NewOTelTracingMiddleware(next dodkit.Service, tracer trace.Tracer, opts ...OTelTracingOption) dodkit.Service {
	mw := &OTelTracingMiddleware{next: next, tracer: tracer}
	for _, o := range opts {
		o(mw)
	}

	return mw
}

// Name returns the name of the wrapped service.
func (mw OTelTracingMiddleware) Name() string { return mw.next.Name() }

// Invoke implements Service.Invoke with tracing.
func (mw OTelTracingMiddleware) Invoke(ctx context.Context, args ...any) (any, error) {
	ctx, span := mw.startSpan(
		ctx, "dodkit.Invoke",
		attribute.String(attrs.AttrService, mw.next.Name()),
		attribute.Int(attrs.AttrArgsCount, len(args)))
	defer span.End()

	v, err := mw.next.Invoke(ctx, args...)
	if err != nil {
		span.SetAttributes(attribute.Bool(attrs.AttrRejected, errors.Is(err, sentinel.ErrCallLimitExceeded)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return v, err
}

func (mw OTelTracingMiddleware) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := mw.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	if len(mw.commonAttrs) > 0 {
		span.SetAttributes(mw.commonAttrs...)
	}

	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}

	return ctx, span
}
