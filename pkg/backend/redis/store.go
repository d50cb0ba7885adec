package redis

import (
	"context"
	"net"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/dodkit/internal/constants"
)

// Store holds the redis client shared by the sample store and the limiter counters.
type Store struct {
	Client *redis.Client
}

// New creates a redis store instance configured with the package defaults and the given options.
func New(opts ...Option) (*Store, error) {
	opt := defaultOptions()

	ApplyOptions(opt, opts...)

	if strings.TrimSpace(opt.Addr) == "" {
		return nil, ewrap.New("redis address is empty")
	}

	return &Store{Client: redis.NewClient(opt)}, nil
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	err := s.Client.Ping(ctx).Err()
	if err != nil {
		return ewrap.Wrap(err, "redis ping")
	}

	return nil
}

// Close releases the client connections.
func (s *Store) Close() error {
	err := s.Client.Close()
	if err != nil {
		return ewrap.Wrap(err, "redis close")
	}

	return nil
}

func defaultOptions() *redis.Options {
	return &redis.Options{
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{
				Timeout: constants.RedisDialTimeout,
			}

			return dialer.DialContext(ctx, network, addr)
		},
		DB:           0,
		MaxRetries:   constants.RedisClientMaxRetries,
		DialTimeout:  constants.RedisDialTimeout,
		ReadTimeout:  constants.RedisClientReadTimeout,
		WriteTimeout: constants.RedisClientWriteTimeout,
		PoolSize:     constants.RedisClientPoolSize,
		MinIdleConns: constants.RedisClientMinIdleConns,
		PoolTimeout:  constants.RedisClientPoolTimeout,
	}
}
