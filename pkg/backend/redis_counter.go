package backend

import (
	"context"
	"errors"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/internal/sentinel"
)

// acquireScript increments the counter only while it is below the limit, so
// the compare and the increment happen in one atomic step on the server.
var acquireScript = redis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
if count < tonumber(ARGV[1]) then
	count = redis.call('INCR', KEYS[1])
	return {count, 1}
end
return {count, 0}
`)

// RedisCounter is a call counter stored in redis. Limiters in different
// processes sharing the same key share the same budget.
type RedisCounter struct {
	rdb *redis.Client
	key string
}

// NewRedisCounter returns a counter stored under `<prefix>:limiter:<name>`.
func NewRedisCounter(client *redis.Client, name string) (*RedisCounter, error) {
	if client == nil {
		return nil, sentinel.ErrNilClient
	}

	if name == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "name")
	}

	return &RedisCounter{rdb: client, key: constants.RedisKeyPrefix + ":limiter:" + name}, nil
}

// Acquire increments the counter if it is below limit.
// It returns the counter value after the attempt and whether the increment happened.
func (c *RedisCounter) Acquire(ctx context.Context, limit int64) (int64, bool, error) {
	res, err := acquireScript.Run(ctx, c.rdb, []string{c.key}, limit).Int64Slice()
	if err != nil {
		return 0, false, ewrap.Wrap(err, "failed to acquire redis counter")
	}

	const fields = 2
	if len(res) != fields {
		return 0, false, ewrap.Newf("unexpected acquire reply of %d fields", len(res))
	}

	return res[0], res[1] == 1, nil
}

// Load returns the current counter value.
func (c *RedisCounter) Load(ctx context.Context) (int64, error) {
	count, err := c.rdb.Get(ctx, c.key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, ewrap.Wrap(err, "failed to load redis counter")
	}

	return count, nil
}
