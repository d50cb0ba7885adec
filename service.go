package dodkit

import (
	"context"

	"github.com/hyp3rd/dodkit/pkg/limiter"
)

// Service is an invocable, named operation.
// It enables middleware to be added around the operation.
type Service interface {
	// Name returns the name of the service
	Name() string
	// Invoke runs the operation with the given arguments
	Invoke(ctx context.Context, args ...any) (any, error)
}

// Middleware describes a service middleware.
type Middleware func(Service) Service

// ApplyMiddleware applies middlewares to a service.
func ApplyMiddleware(svc Service, mw ...Middleware) Service {
	// Apply each middleware in the chain
	for _, m := range mw {
		svc = m(svc)
	}
	// Return the decorated service
	return svc
}

type operationService struct {
	name string
	op   limiter.Operation
}

// NewService returns a Service invoking op.
func NewService(name string, op limiter.Operation) Service {
	return &operationService{name: name, op: op}
}

// Name returns the name of the service.
func (s *operationService) Name() string { return s.name }

// Invoke runs the operation.
func (s *operationService) Invoke(ctx context.Context, args ...any) (any, error) {
	return s.op(ctx, args...)
}
