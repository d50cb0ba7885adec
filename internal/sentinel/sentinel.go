// Package sentinel provides standardized error definitions for dodkit.
// This package centralizes the error values shared by the statistics,
// limiter and repeater components, so callers can match them with errors.Is
// regardless of how much context was wrapped around them.
//
// All errors are created using the ewrap package to provide enhanced error
// wrapping and context capabilities.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrEmptySampleSet is returned when statistics are requested over zero numeric values.
	ErrEmptySampleSet = ewrap.New("empty sample set")

	// ErrCallLimitExceeded is returned when a limited operation is invoked past its limit.
	ErrCallLimitExceeded = ewrap.New("call limit exceeded")

	// ErrInvalidLimit is returned when a negative call limit is passed to a limiter.
	ErrInvalidLimit = ewrap.New("limit cannot be negative")

	// ErrNilOperation is returned when a nil operation is wrapped.
	ErrNilOperation = ewrap.New("nil operation")

	// ErrInvalidCapacity is returned when a negative series capacity is passed to a store.
	ErrInvalidCapacity = ewrap.New("capacity cannot be negative")

	// ErrNilClient is returned when a nil client is passed to a redis backed component.
	ErrNilClient = ewrap.New("nil client")

	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrSerializerNotFound is returned when a serializer is not found.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrSeriesNotFound is returned when a sample series does not exist in the store.
	ErrSeriesNotFound = ewrap.New("series not found")

	// ErrLimiterExists is returned when a limiter name is registered twice.
	ErrLimiterExists = ewrap.New("limiter already registered")

	// ErrTimeoutOrCanceled is returned when a timeout or cancellation occurs.
	ErrTimeoutOrCanceled = ewrap.New("the operation timed out or was canceled")

	// ErrMgmtHTTPShutdownTimeout is returned when the management HTTP server fails to shutdown before context deadline.
	ErrMgmtHTTPShutdownTimeout = ewrap.New("management http shutdown timeout")
)
