// Package middleware provides various middleware implementations for dodkit services.
// This package includes logging middleware that wraps a dodkit service to provide
// execution time logging and invocation tracing for debugging and monitoring purposes.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/dodkit"
)

// Logger describes a logging interface allowing to implement different external, or custom logger.
// Tested with the standard library logger and Uber's Zap (through zap.NewStdLog), but should work with any other logger that matches the interface.
type Logger interface {
	Printf(format string, v ...any)
}

// LoggingMiddleware is a middleware that logs the time it takes to execute the next middleware.
// Must implement the dodkit.Service interface.
type LoggingMiddleware struct {
	next   dodkit.Service
	logger Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware(next dodkit.Service, logger Logger) dodkit.Service {
	return &LoggingMiddleware{next: next, logger: logger}
}

// Name returns the name of the wrapped service.
func (mw LoggingMiddleware) Name() string { return mw.next.Name() }

// Invoke logs the call and the time it takes to execute the next middleware.
func (mw LoggingMiddleware) Invoke(ctx context.Context, args ...any) (any, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("service %s took: %s", mw.next.Name(), time.Since(begin))
	}(time.Now())

	mw.logger.Printf("%s called with %d args", mw.next.Name(), len(args))

	return mw.next.Invoke(ctx, args...)
}
