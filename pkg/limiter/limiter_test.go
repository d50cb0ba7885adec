package limiter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/types"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func countingOp(calls *atomic.Int64) Operation {
	return func(_ context.Context, args ...any) (any, error) {
		calls.Add(1)

		return len(args), nil
	}
}

func TestCallLimiter_ForwardsUpToLimit(t *testing.T) {
	var calls atomic.Int64

	logger := &recordingLogger{}

	l, err := New(countingOp(&calls), 3, WithName("f"), WithLogger(logger))
	assert.Nil(t, err)

	ctx := context.Background()

	for i := range 3 {
		v, err := l.Call(ctx, "a", i)
		assert.Nil(t, err)
		assert.Equal(t, 2, v)
	}

	v, err := l.Call(ctx)
	if !errors.Is(err, sentinel.ErrCallLimitExceeded) {
		t.Fatalf("expected ErrCallLimitExceeded on the 4th call, got %v", err)
	}

	assert.Nil(t, v)
	assert.Equal(t, int64(3), calls.Load())
	assert.Equal(t, []string{"Error: f call too many times"}, logger.lines)

	state, err := l.State(ctx)
	assert.Nil(t, err)
	assert.Equal(t, types.LimiterExhausted, state)
}

func TestCallLimiter_ZeroLimitRejectsEverything(t *testing.T) {
	var calls atomic.Int64

	l, err := New(countingOp(&calls), 0, WithLogger(&recordingLogger{}))
	assert.Nil(t, err)

	ctx := context.Background()

	state, _ := l.State(ctx)
	assert.Equal(t, types.LimiterExhausted, state)

	for range 5 {
		_, err := l.Call(ctx, 1)
		if !errors.Is(err, sentinel.ErrCallLimitExceeded) {
			t.Fatalf("expected ErrCallLimitExceeded, got %v", err)
		}
	}

	assert.Equal(t, int64(0), calls.Load())
	assert.Equal(t, int64(5), l.Rejected())
}

func TestCallLimiter_ExhaustedIsTerminal(t *testing.T) {
	var calls atomic.Int64

	l, _ := New(countingOp(&calls), 2, WithLogger(&recordingLogger{}))
	ctx := context.Background()

	state, _ := l.State(ctx)
	assert.Equal(t, types.LimiterOpen, state)

	for range 10 {
		_, _ = l.Call(ctx)
	}

	count, err := l.Count(ctx)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), count)

	remaining, _ := l.Remaining(ctx)
	assert.Equal(t, int64(0), remaining)

	snap, err := l.Snapshot(ctx)
	assert.Nil(t, err)
	assert.Equal(t, Snapshot{Name: l.Name(), Limit: 2, Count: 2, Rejected: 8, State: types.LimiterExhausted}, snap)
}

func TestCallLimiter_OperationErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")

	l, _ := New(func(context.Context, ...any) (any, error) { return nil, boom }, 1, WithLogger(&recordingLogger{}))

	_, err := l.Call(context.Background())
	assert.Equal(t, boom, err)

	// the failed call still consumed the budget
	_, err = l.Call(context.Background())
	if !errors.Is(err, sentinel.ErrCallLimitExceeded) {
		t.Fatalf("expected ErrCallLimitExceeded, got %v", err)
	}
}

func TestCallLimiter_ConcurrentCallsNeverExceedLimit(t *testing.T) {
	var calls atomic.Int64

	l, _ := New(countingOp(&calls), 25, WithLogger(&recordingLogger{}))

	var wg sync.WaitGroup

	for range 200 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _ = l.Call(context.Background())
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(25), calls.Load())
	assert.Equal(t, int64(175), l.Rejected())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, 1)
	if !errors.Is(err, sentinel.ErrNilOperation) {
		t.Fatalf("expected ErrNilOperation, got %v", err)
	}

	_, err = New(func(context.Context, ...any) (any, error) { return nil, nil }, -1)
	if !errors.Is(err, sentinel.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func greet(context.Context, ...any) (any, error) { return "hello", nil }

func TestNew_DefaultNameIsOperationSymbol(t *testing.T) {
	l, err := New(greet, 1)
	assert.Nil(t, err)
	assert.True(t, strings.HasSuffix(l.Name(), ".greet"))
}

func TestFactory_SharesCounter(t *testing.T) {
	limit := Factory(3, WithLogger(&recordingLogger{}))

	f, err := limit(greet)
	assert.Nil(t, err)

	g, err := limit(greet)
	assert.Nil(t, err)

	ctx := context.Background()

	_, err = f.Call(ctx)
	assert.Nil(t, err)
	_, err = g.Call(ctx)
	assert.Nil(t, err)
	_, err = f.Call(ctx)
	assert.Nil(t, err)

	_, err = g.Call(ctx)
	if !errors.Is(err, sentinel.ErrCallLimitExceeded) {
		t.Fatalf("expected the shared budget to be spent, got %v", err)
	}
}

func square(x float64) float64 { return x * x }

func TestWrap_TypedFunction(t *testing.T) {
	logger := &recordingLogger{}

	limited, err := Wrap(square, 2, WithLogger(logger))
	assert.Nil(t, err)

	ctx := context.Background()

	v, err := limited(ctx, 3)
	assert.Nil(t, err)
	assert.Equal(t, 9.0, v)

	v, err = limited(ctx, 4)
	assert.Nil(t, err)
	assert.Equal(t, 16.0, v)

	v, err = limited(ctx, 5)
	if !errors.Is(err, sentinel.ErrCallLimitExceeded) {
		t.Fatalf("expected ErrCallLimitExceeded, got %v", err)
	}

	assert.Equal(t, 0.0, v)
	assert.Equal(t, 1, len(logger.lines))
	assert.True(t, strings.Contains(logger.lines[0], "square call too many times"))

	_, err = Wrap[int, int](nil, 1)
	if !errors.Is(err, sentinel.ErrNilOperation) {
		t.Fatalf("expected ErrNilOperation, got %v", err)
	}
}
