package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/dodkit/internal/sentinel"
)

func TestInMemory_AppendAndValues(t *testing.T) {
	store, err := NewInMemory()
	assert.Nil(t, err)

	ctx := context.Background()

	assert.Nil(t, store.Append(ctx, "latency", 3, 1))
	assert.Nil(t, store.Append(ctx, "latency", 2))

	values, err := store.Values(ctx, "latency")
	assert.Nil(t, err)
	assert.Equal(t, []float64{3, 1, 2}, values)

	// the returned slice is a copy
	values[0] = 42

	again, _ := store.Values(ctx, "latency")
	assert.Equal(t, 3.0, again[0])
}

func TestInMemory_CapacityKeepsNewest(t *testing.T) {
	store, err := NewInMemory(WithCapacity[InMemory](3))
	assert.Nil(t, err)
	assert.Equal(t, 3, store.Capacity())

	ctx := context.Background()
	assert.Nil(t, store.Append(ctx, "s", 1, 2, 3, 4, 5))

	values, err := store.Values(ctx, "s")
	assert.Nil(t, err)
	assert.Equal(t, []float64{3, 4, 5}, values)
}

func TestInMemory_Errors(t *testing.T) {
	_, err := NewInMemory(WithCapacity[InMemory](-1))
	if !errors.Is(err, sentinel.ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}

	store, _ := NewInMemory()
	ctx := context.Background()

	_, err = store.Values(ctx, "missing")
	if !errors.Is(err, sentinel.ErrSeriesNotFound) {
		t.Fatalf("expected ErrSeriesNotFound, got %v", err)
	}

	err = store.Append(ctx, "", 1)
	if !errors.Is(err, sentinel.ErrParamCannotBeEmpty) {
		t.Fatalf("expected ErrParamCannotBeEmpty, got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	err = store.Append(canceled, "s", 1)
	if !errors.Is(err, sentinel.ErrTimeoutOrCanceled) {
		t.Fatalf("expected ErrTimeoutOrCanceled, got %v", err)
	}
}

func TestInMemory_SeriesRemoveClear(t *testing.T) {
	store, _ := NewInMemory()
	ctx := context.Background()

	assert.Nil(t, store.Append(ctx, "b", 1))
	assert.Nil(t, store.Append(ctx, "a", 1))
	assert.Nil(t, store.Append(ctx, "c"))

	names, err := store.Series(ctx)
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	assert.Nil(t, store.Remove(ctx, "b", "missing"))

	names, _ = store.Series(ctx)
	assert.Equal(t, []string{"a", "c"}, names)

	assert.Nil(t, store.Clear(ctx))

	names, _ = store.Series(ctx)
	assert.Equal(t, 0, len(names))
}
