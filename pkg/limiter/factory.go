package limiter

import (
	"context"

	"github.com/hyp3rd/dodkit/internal/sentinel"
)

// Factory returns a decorator limiting every operation it wraps.
// All limiters built by the same decorator share one counter, so the limit
// bounds the total number of calls across them. WithCounter overrides it.
func Factory(limit int64, opts ...Option) func(op Operation) (*CallLimiter, error) {
	shared := NewMemoryCounter()

	return func(op Operation) (*CallLimiter, error) {
		return New(op, limit, append([]Option{WithCounter(shared)}, opts...)...)
	}
}

// Wrap limits a single argument function, keeping its types.
func Wrap[T, R any](fn func(T) R, limit int64, opts ...Option) (func(ctx context.Context, arg T) (R, error), error) {
	if fn == nil {
		return nil, sentinel.ErrNilOperation
	}

	op := func(_ context.Context, args ...any) (any, error) {
		arg, _ := args[0].(T)

		return fn(arg), nil
	}

	l, err := New(op, limit, append([]Option{WithName(funcName(fn))}, opts...)...)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, arg T) (R, error) {
		var zero R

		v, err := l.Call(ctx, arg)
		if err != nil {
			return zero, err
		}

		res, _ := v.(R)

		return res, nil
	}, nil
}
