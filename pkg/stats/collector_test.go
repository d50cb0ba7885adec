package stats

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/pkg/backend"
)

func TestCollector_ObserveAndSummary(t *testing.T) {
	collector, err := NewCollector(nil)
	assert.Nil(t, err)

	ctx := context.Background()

	assert.Nil(t, collector.Observe(ctx, "latency", 4, 1, 3))
	assert.Nil(t, collector.Observe(ctx, "latency", 2))

	summary, err := collector.Summary(ctx, "latency")
	assert.Nil(t, err)
	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 2.5, summary.Median)
	assert.Equal(t, 1.0, summary.Min)
	assert.Equal(t, 4.0, summary.Max)

	names, err := collector.Series(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"latency"}, names)
}

func TestCollector_MissingSeries(t *testing.T) {
	var buf bytes.Buffer

	collector, err := NewCollector(nil, WithWriter(&buf))
	assert.Nil(t, err)

	ctx := context.Background()

	_, err = collector.Summary(ctx, "nope")
	if !errors.Is(err, sentinel.ErrEmptySampleSet) {
		t.Fatalf("expected ErrEmptySampleSet, got %v", err)
	}

	assert.Nil(t, collector.Report(ctx, "nope", Ask("mean", "std")))
	assert.Equal(t, "ERROR\nERROR\n", buf.String())
}

func TestCollector_ReportAndReset(t *testing.T) {
	var buf bytes.Buffer

	store, err := backend.NewInMemory(backend.WithCapacity[backend.InMemory](4))
	assert.Nil(t, err)

	collector, err := NewCollector(store, WithWriter(&buf))
	assert.Nil(t, err)

	ctx := context.Background()

	// capacity keeps the 4 newest samples: 3, 4, 5, 6
	assert.Nil(t, collector.Observe(ctx, "s", 1, 2, 3, 4, 5, 6))
	assert.Nil(t, collector.Report(ctx, "s", Ask("mean", "quartile")))
	assert.Equal(t, "mean: 4.5\nquartile: [4.0, 6.0]\n", buf.String())

	assert.Nil(t, collector.Reset(ctx, "s"))

	_, err = collector.Summary(ctx, "s")
	if !errors.Is(err, sentinel.ErrEmptySampleSet) {
		t.Fatalf("expected ErrEmptySampleSet after reset, got %v", err)
	}
}
