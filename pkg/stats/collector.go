package stats

import (
	"context"
	"errors"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/pkg/backend"
)

// Collector accumulates named sample series in a store and summarizes them on demand.
type Collector struct {
	store      backend.ISampleStore
	aggregator *Aggregator
}

// NewCollector creates a collector over store. A nil store defaults to an
// unbounded in-memory store. opts configure the aggregator used by Report.
func NewCollector(store backend.ISampleStore, opts ...Option) (*Collector, error) {
	if store == nil {
		inMemory, err := backend.NewInMemory()
		if err != nil {
			return nil, err
		}

		store = inMemory
	}

	return &Collector{store: store, aggregator: NewAggregator(opts...)}, nil
}

// Observe appends values to the series.
func (c *Collector) Observe(ctx context.Context, series string, values ...float64) error {
	return c.store.Append(ctx, series, values...)
}

// Sample returns the sorted sample of a series.
func (c *Collector) Sample(ctx context.Context, series string) (Sample, error) {
	values, err := c.store.Values(ctx, series)
	if err != nil {
		return nil, err
	}

	return FromFloats(values), nil
}

// Summary summarizes a series.
// A series that was never observed, or holds no value, yields sentinel.ErrEmptySampleSet.
func (c *Collector) Summary(ctx context.Context, series string) (Summary, error) {
	sample, err := c.Sample(ctx, series)
	if err != nil {
		if errors.Is(err, sentinel.ErrSeriesNotFound) {
			return Summary{}, ewrap.Wrap(sentinel.ErrEmptySampleSet, err.Error())
		}

		return Summary{}, err
	}

	return sample.Summary()
}

// Report writes the statistics requested by req over a series. A missing
// series is reported like an empty sample.
func (c *Collector) Report(ctx context.Context, series string, req Request) error {
	sample, err := c.Sample(ctx, series)
	if err != nil && !errors.Is(err, sentinel.ErrSeriesNotFound) {
		return err
	}

	return c.aggregator.ReportSample(req, sample)
}

// Series returns the names of the stored series.
func (c *Collector) Series(ctx context.Context) ([]string, error) {
	return c.store.Series(ctx)
}

// Reset drops the given series.
func (c *Collector) Reset(ctx context.Context, series ...string) error {
	return c.store.Remove(ctx, series...)
}
