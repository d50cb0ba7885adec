package middleware

import (
	"context"
	"slices"

	"github.com/hyp3rd/dodkit"
	"github.com/hyp3rd/dodkit/pkg/limiter"
)

// CallLimitMiddleware forwards at most limit invocations to the next service.
// Must implement the dodkit.Service interface.
type CallLimitMiddleware struct {
	next    dodkit.Service
	limiter *limiter.CallLimiter
}

// NewCallLimitMiddleware returns a new CallLimitMiddleware named after the wrapped service.
func NewCallLimitMiddleware(next dodkit.Service, limit int64, opts ...limiter.Option) (dodkit.Service, error) {
	l, err := limiter.New(next.Invoke, limit, slices.Concat([]limiter.Option{limiter.WithName(next.Name())}, opts)...)
	if err != nil {
		return nil, err
	}

	return &CallLimitMiddleware{next: next, limiter: l}, nil
}

// Name returns the name of the wrapped service.
func (mw *CallLimitMiddleware) Name() string { return mw.next.Name() }

// Invoke forwards the call while the limit is not reached.
func (mw *CallLimitMiddleware) Invoke(ctx context.Context, args ...any) (any, error) {
	return mw.limiter.Call(ctx, args...)
}

// Limiter returns the underlying limiter.
func (mw *CallLimitMiddleware) Limiter() *limiter.CallLimiter { return mw.limiter }
