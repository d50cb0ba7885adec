// Package backend provides the storage layer for sample series. A series is
// an append-only, named list of float64 observations that the stats
// collector summarizes on demand.
//
// Two stores are available: InMemory, built on a sharded concurrent map, and
// Redis, which keeps each series in a redis list so several processes can
// feed and read the same series. The package also provides RedisCounter, a
// call counter shared across processes for the call limiter.
package backend

import (
	"context"
)

// IBackendConstrain restricts the generic options to the supported stores.
type IBackendConstrain interface {
	InMemory | Redis
}

// ISampleStore defines the contract every sample store implements.
//
// All methods accept a context.Context parameter for cancellation and timeout
// control.
type ISampleStore interface {
	// Append adds values at the end of the series, creating it if needed.
	Append(ctx context.Context, series string, values ...float64) error
	// Values returns a copy of the series in insertion order.
	// It returns sentinel.ErrSeriesNotFound when the series does not exist.
	Values(ctx context.Context, series string) ([]float64, error)
	// Series returns the names of the stored series.
	Series(ctx context.Context) ([]string, error)
	// Remove deletes the given series.
	Remove(ctx context.Context, series ...string) error
	// Clear removes every series.
	Clear(ctx context.Context) error
	// Capacity returns the maximum number of samples kept per series (0 = unbounded).
	Capacity() int
}
