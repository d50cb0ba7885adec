package backend

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/internal/sentinel"
)

const (
	maxRetries   = 3
	retriesDelay = 100 * time.Millisecond
)

// Redis is a sample store that keeps every series in a redis list.
type Redis struct {
	rdb      *redis.Client // redis client to interact with the redis server
	prefix   string        // prefix of every key written by the store
	capacity int           // maximum samples per series, 0 means unbounded
}

// NewRedis creates a new redis store with the given options.
func NewRedis(redisOptions ...Option[Redis]) (*Redis, error) {
	rb := &Redis{}

	ApplyOptions(rb, redisOptions...)

	if rb.rdb == nil {
		return nil, sentinel.ErrNilClient
	}

	if rb.capacity < 0 {
		return nil, sentinel.ErrInvalidCapacity
	}

	if rb.prefix == "" {
		rb.prefix = constants.RedisKeyPrefix
	}

	return rb, nil
}

// Capacity returns the maximum number of samples kept per series.
func (rb *Redis) Capacity() int {
	return rb.capacity
}

func (rb *Redis) seriesKey(series string) string {
	return rb.prefix + ":series:" + series
}

func (rb *Redis) setKey() string {
	return rb.prefix + ":series"
}

// Append pushes values at the tail of the series list, trimming it to capacity.
func (rb *Redis) Append(ctx context.Context, series string, values ...float64) error {
	if series == "" {
		return ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "series")
	}

	members := make([]any, 0, len(values))
	for _, v := range values {
		members = append(members, strconv.FormatFloat(v, 'g', -1, 64))
	}

	pipe := rb.rdb.TxPipeline()

	pipe.SAdd(ctx, rb.setKey(), series)

	if len(members) > 0 {
		pipe.RPush(ctx, rb.seriesKey(series), members...)
	}

	if rb.capacity > 0 {
		pipe.LTrim(ctx, rb.seriesKey(series), int64(-rb.capacity), -1)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return ewrap.Wrap(err, "failed to execute redis pipeline")
	}

	return nil
}

// Values returns the series in insertion order.
func (rb *Redis) Values(ctx context.Context, series string) ([]float64, error) {
	isMember, err := rb.rdb.SIsMember(ctx, rb.setKey(), series).Result()
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to look up series")
	}

	if !isMember {
		return nil, ewrap.Wrap(sentinel.ErrSeriesNotFound, series)
	}

	raw, err := rb.rdb.LRange(ctx, rb.seriesKey(series), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, ewrap.Wrap(err, "failed to read series")
	}

	values := make([]float64, 0, len(raw))

	for _, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, ewrap.Wrapf(err, "series %s holds a non numeric sample", series)
		}

		values = append(values, v)
	}

	return values, nil
}

// Series returns the sorted names of the stored series.
func (rb *Redis) Series(ctx context.Context) ([]string, error) {
	names, err := rb.rdb.SMembers(ctx, rb.setKey()).Result()
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to list series")
	}

	slices.Sort(names)

	return names, nil
}

// Remove deletes the given series.
func (rb *Redis) Remove(ctx context.Context, series ...string) error {
	if len(series) == 0 {
		return nil
	}

	keys := make([]string, 0, len(series))
	members := make([]any, 0, len(series))

	for _, name := range series {
		keys = append(keys, rb.seriesKey(name))
		members = append(members, name)
	}

	pipe := rb.rdb.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.SRem(ctx, rb.setKey(), members...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return ewrap.Wrap(err, "failed to remove series")
	}

	return nil
}

// Clear removes every series written under the store prefix.
func (rb *Redis) Clear(ctx context.Context) error {
	names, err := rb.Series(ctx)
	if err != nil {
		return err
	}

	err = rb.Remove(ctx, names...)
	if err != nil {
		return ewrap.Wrap(err, "clearing series", ewrap.WithRetry(maxRetries, retriesDelay))
	}

	return nil
}
