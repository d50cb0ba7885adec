package backend

import (
	"context"
	"slices"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/pkg/cmap"
)

// InMemory is a sample store that keeps the series in memory, leveraging a sharded `ConcurrentMap`.
type InMemory struct {
	series   cmap.ConcurrentMap[[]float64] // series name -> samples
	capacity int                           // maximum samples per series, 0 means unbounded
}

// NewInMemory creates a new in-memory store with the given options.
func NewInMemory(opts ...Option[InMemory]) (*InMemory, error) {
	store := &InMemory{
		series: cmap.New[[]float64](),
	}

	ApplyOptions(store, opts...)

	if store.capacity < 0 {
		return nil, sentinel.ErrInvalidCapacity
	}

	return store, nil
}

// Capacity returns the maximum number of samples kept per series.
func (store *InMemory) Capacity() int {
	return store.capacity
}

// Append adds values at the end of the series.
func (store *InMemory) Append(ctx context.Context, series string, values ...float64) error {
	if series == "" {
		return ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "series")
	}

	if err := ctx.Err(); err != nil {
		return ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, err.Error())
	}

	store.series.Upsert(series, func(_ bool, existing []float64) []float64 {
		existing = append(existing, values...)
		if store.capacity > 0 && len(existing) > store.capacity {
			existing = slices.Clone(existing[len(existing)-store.capacity:])
		}

		return existing
	})

	return nil
}

// Values returns a copy of the series.
func (store *InMemory) Values(_ context.Context, series string) ([]float64, error) {
	values, ok := store.series.Get(series)
	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrSeriesNotFound, series)
	}

	return slices.Clone(values), nil
}

// Series returns the sorted names of the stored series.
func (store *InMemory) Series(_ context.Context) ([]string, error) {
	names := store.series.Keys()
	slices.Sort(names)

	return names, nil
}

// Remove deletes the given series. Missing series are ignored.
func (store *InMemory) Remove(ctx context.Context, series ...string) error {
	for _, name := range series {
		if err := ctx.Err(); err != nil {
			return ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, err.Error())
		}

		store.series.Pop(name)
	}

	return nil
}

// Clear removes every series.
func (store *InMemory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, err.Error())
	}

	store.series.Clear()

	return nil
}
