package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/dodkit"
	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/pkg/stats"
)

// StatsCollectorMiddleware records the latency of every invocation, in milliseconds,
// into the "<service>.duration_ms" series of a stats.Collector.
// Must implement the dodkit.Service interface.
type StatsCollectorMiddleware struct {
	next      dodkit.Service
	collector *stats.Collector
	series    string
}

// NewStatsCollectorMiddleware returns a new StatsCollectorMiddleware.
func NewStatsCollectorMiddleware(next dodkit.Service, collector *stats.Collector) dodkit.Service {
	return &StatsCollectorMiddleware{
		next:      next,
		collector: collector,
		series:    next.Name() + constants.DurationSeriesSuffix,
	}
}

// Name returns the name of the wrapped service.
func (mw StatsCollectorMiddleware) Name() string { return mw.next.Name() }

// Invoke collects the duration of the call. Recording failures never fail the call.
func (mw StatsCollectorMiddleware) Invoke(ctx context.Context, args ...any) (any, error) {
	start := time.Now()

	defer func() {
		elapsed := float64(time.Since(start).Microseconds()) / 1000
		_ = mw.collector.Observe(context.WithoutCancel(ctx), mw.series, elapsed)
	}()

	return mw.next.Invoke(ctx, args...)
}
