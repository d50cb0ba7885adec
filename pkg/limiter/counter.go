package limiter

import (
	"context"
	"sync/atomic"
)

// Counter holds the number of calls a limiter forwarded.
// Acquire must compare and increment in a single atomic step.
type Counter interface {
	// Acquire increments the counter if it is below limit. It returns the
	// counter value after the attempt and whether the increment happened.
	Acquire(ctx context.Context, limit int64) (count int64, ok bool, err error)
	// Load returns the current counter value.
	Load(ctx context.Context) (int64, error)
}

// MemoryCounter is a process local Counter.
type MemoryCounter struct {
	count atomic.Int64
}

// NewMemoryCounter returns a counter starting at zero.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{}
}

// Acquire increments the counter if it is below limit.
func (c *MemoryCounter) Acquire(_ context.Context, limit int64) (int64, bool, error) {
	for {
		current := c.count.Load()
		if current >= limit {
			return current, false, nil
		}

		if c.count.CompareAndSwap(current, current+1) {
			return current + 1, true, nil
		}
	}
}

// Load returns the current counter value.
func (c *MemoryCounter) Load(_ context.Context) (int64, error) {
	return c.count.Load(), nil
}
