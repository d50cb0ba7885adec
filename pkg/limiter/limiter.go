// Package limiter caps how many times an operation may be invoked.
//
// A CallLimiter forwards calls to the wrapped operation while its counter is
// below the limit, then refuses every further call: it logs a notice and
// returns an error wrapping sentinel.ErrCallLimitExceeded without invoking the
// operation. There is no reset. The counter is pluggable: MemoryCounter keeps
// it in process, backend.RedisCounter shares it between processes.
package limiter

import (
	"context"
	"log"
	"os"
	"reflect"
	"runtime"
	"sync/atomic"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/types"
)

// Operation is the shape of a limited operation.
type Operation func(ctx context.Context, args ...any) (any, error)

// Logger describes a logging interface allowing to implement different external, or custom logger.
type Logger interface {
	Printf(format string, v ...any)
}

// Snapshot is a point in time view of a limiter.
type Snapshot struct {
	Name     string             `json:"name"`
	Limit    int64              `json:"limit"`
	Count    int64              `json:"count"`
	Rejected int64              `json:"rejected"`
	State    types.LimiterState `json:"state"`
}

// CallLimiter forwards at most limit calls to an operation.
type CallLimiter struct {
	name     string
	op       Operation
	limit    int64
	counter  Counter
	logger   Logger
	rejected atomic.Int64
}

// Option configures a CallLimiter.
type Option func(*CallLimiter)

// WithName sets the name reported in notices and snapshots.
// It defaults to the symbol name of the operation.
func WithName(name string) Option {
	return func(l *CallLimiter) {
		l.name = name
	}
}

// WithLogger sets the logger receiving the limit exceeded notices.
// It defaults to a logger writing to stdout.
func WithLogger(logger Logger) Option {
	return func(l *CallLimiter) {
		l.logger = logger
	}
}

// WithCounter sets the counter. It defaults to a new MemoryCounter.
func WithCounter(counter Counter) Option {
	return func(l *CallLimiter) {
		l.counter = counter
	}
}

// New wraps op so that it is invoked at most limit times.
func New(op Operation, limit int64, opts ...Option) (*CallLimiter, error) {
	if op == nil {
		return nil, sentinel.ErrNilOperation
	}

	if limit < 0 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidLimit, "limit %d", limit)
	}

	l := &CallLimiter{
		name:  funcName(op),
		op:    op,
		limit: limit,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.counter == nil {
		l.counter = NewMemoryCounter()
	}

	if l.logger == nil {
		l.logger = log.New(os.Stdout, "", 0)
	}

	return l, nil
}

// Call forwards args to the operation while the limit is not reached and
// returns its result unchanged. Past the limit it returns nil and an error
// wrapping sentinel.ErrCallLimitExceeded, and the operation is not invoked.
func (l *CallLimiter) Call(ctx context.Context, args ...any) (any, error) {
	_, ok, err := l.counter.Acquire(ctx, l.limit)
	if err != nil {
		return nil, ewrap.Wrapf(err, "acquiring a call for %s", l.name)
	}

	if !ok {
		l.rejected.Add(1)
		l.logger.Printf("Error: %s call too many times", l.name)

		return nil, ewrap.Wrapf(sentinel.ErrCallLimitExceeded, "%s (limit %d)", l.name, l.limit)
	}

	return l.op(ctx, args...)
}

// Name returns the limiter name.
func (l *CallLimiter) Name() string {
	return l.name
}

// Limit returns the configured limit.
func (l *CallLimiter) Limit() int64 {
	return l.limit
}

// Rejected returns how many calls this limiter refused.
func (l *CallLimiter) Rejected() int64 {
	return l.rejected.Load()
}

// Count returns how many calls were forwarded.
func (l *CallLimiter) Count(ctx context.Context) (int64, error) {
	return l.counter.Load(ctx)
}

// Remaining returns how many calls can still be forwarded.
func (l *CallLimiter) Remaining(ctx context.Context) (int64, error) {
	count, err := l.counter.Load(ctx)
	if err != nil {
		return 0, err
	}

	return max(l.limit-count, 0), nil
}

// State returns LimiterOpen while calls can be forwarded, LimiterExhausted afterwards.
func (l *CallLimiter) State(ctx context.Context) (types.LimiterState, error) {
	remaining, err := l.Remaining(ctx)
	if err != nil {
		return "", err
	}

	if remaining == 0 {
		return types.LimiterExhausted, nil
	}

	return types.LimiterOpen, nil
}

// Snapshot returns the current state of the limiter.
func (l *CallLimiter) Snapshot(ctx context.Context) (Snapshot, error) {
	count, err := l.counter.Load(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	state := types.LimiterOpen
	if count >= l.limit {
		state = types.LimiterExhausted
	}

	return Snapshot{
		Name:     l.name,
		Limit:    l.limit,
		Count:    count,
		Rejected: l.rejected.Load(),
		State:    state,
	}, nil
}

// funcName returns the symbol name of a function value.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return constants.DefaultLimiterName
	}

	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}

	return constants.DefaultLimiterName
}
