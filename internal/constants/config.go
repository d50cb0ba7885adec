// Package constants defines default configuration values for dodkit:
// report formatting, limiter naming, storage backends and the management server.
package constants

import "time"

const (
	// DefaultErrorMarker is the line emitted for each requested statistic
	// when the sample set is empty.
	DefaultErrorMarker = "ERROR"
	// DefaultLimiterName is used when a limiter is built without a name.
	DefaultLimiterName = "operation"
	// DefaultSerializer is the serializer used by the management server
	// when the request does not pick one.
	DefaultSerializer = "json"
	// DurationSeriesSuffix is appended to a service name to build the series
	// the stats middleware records call latencies into.
	DurationSeriesSuffix = ".duration_ms"
	// InMemoryBackend is the in-memory sample store type.
	InMemoryBackend = "in-memory"
	// RedisBackend is the redis sample store type.
	RedisBackend = "redis"
	// DefaultMgmtShutdownTimeout bounds how long Kit.Stop waits for the management server.
	DefaultMgmtShutdownTimeout = 5 * time.Second
)
