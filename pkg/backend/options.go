package backend

import (
	"github.com/redis/go-redis/v9"
)

// iConfigurableBackend is an interface that defines the methods that a backend should implement to be configurable.
type iConfigurableBackend interface {
	// setCapacity sets the per-series capacity.
	setCapacity(capacity int)
}

// setCapacity sets the `capacity` field of the `InMemory` backend.
func (inm *InMemory) setCapacity(capacity int) {
	inm.capacity = capacity
}

// setCapacity sets the `capacity` field of the `Redis` backend.
func (rb *Redis) setCapacity(capacity int) {
	rb.capacity = capacity
}

// Option is a function type that can be used to configure a store.
type Option[T IBackendConstrain] func(*T)

// ApplyOptions applies the given options to the given backend.
func ApplyOptions[T IBackendConstrain](backend *T, options ...Option[T]) {
	for _, option := range options {
		option(backend)
	}
}

// WithCapacity is an option that sets how many samples each series keeps.
// When the capacity is reached, the oldest samples are dropped.
func WithCapacity[T IBackendConstrain](capacity int) Option[T] {
	return func(a *T) {
		if configurable, ok := any(a).(iConfigurableBackend); ok {
			configurable.setCapacity(capacity)
		}
	}
}

// WithRedisClient is an option that sets the redis client to use.
func WithRedisClient(client *redis.Client) Option[Redis] {
	return func(backend *Redis) {
		backend.rdb = client
	}
}

// WithKeyPrefix is an option that sets the prefix of every key the store writes.
func WithKeyPrefix(prefix string) Option[Redis] {
	return func(backend *Redis) {
		backend.prefix = prefix
	}
}
