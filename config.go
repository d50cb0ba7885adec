package dodkit

import (
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/pkg/backend"
	"github.com/hyp3rd/dodkit/pkg/limiter"
	"github.com/hyp3rd/dodkit/pkg/stats"
)

// Config is a struct that wraps all the configuration options to setup a `Kit` and its sample store.
type Config struct {
	// BackendType selects the sample store: constants.InMemoryBackend or constants.RedisBackend.
	BackendType string
	// InMemoryOptions configure the in-memory sample store.
	InMemoryOptions []backend.Option[backend.InMemory]
	// RedisOptions configure the redis sample store. They must include backend.WithRedisClient.
	RedisOptions []backend.Option[backend.Redis]
	// StatsOptions configure the aggregator used for reports.
	StatsOptions []stats.Option
	// LimiterOptions are applied to every limiter created through the Kit.
	LimiterOptions []limiter.Option
	// KitOptions configure the Kit itself.
	KitOptions []Option
}

// NewConfig returns a new `Config` for the given backend type with empty option lists.
// An empty backend type selects the in-memory store.
func NewConfig(backendType string) *Config {
	if backendType == "" {
		backendType = constants.InMemoryBackend
	}

	return &Config{
		BackendType:     backendType,
		InMemoryOptions: []backend.Option[backend.InMemory]{},
		RedisOptions:    []backend.Option[backend.Redis]{},
		StatsOptions:    []stats.Option{},
		LimiterOptions:  []limiter.Option{},
		KitOptions:      []Option{},
	}
}

// Option is a function type that can be used to configure the `Kit` struct.
type Option func(*Kit)

// ApplyOptions applies the given options to the given kit.
func ApplyOptions(kit *Kit, options ...Option) {
	for _, option := range options {
		option(kit)
	}
}

// WithManagementHTTP enables the management HTTP server on addr.
func WithManagementHTTP(addr string, opts ...ManagementHTTPOption) Option {
	return func(kit *Kit) {
		kit.mgmtAddr = addr
		kit.mgmtOpts = opts
	}
}

// WithRedisCounters makes the limiters created by the Kit count calls in redis,
// so limiters with the same name share their budget across processes.
func WithRedisCounters(client *redis.Client) Option {
	return func(kit *Kit) {
		kit.counterClient = client
	}
}
