// Copyright 2023 F. All rights reserved.
// Use of this source code is governed by a Mozilla Public License 2.0
// license that can be found in the LICENSE file.

// Package dodkit bundles descriptive statistics reporting and call limiting
// behind a single Kit, with an optional management HTTP server.
package dodkit

import (
	"context"
	"slices"
	"strings"

	"github.com/hyp3rd/ewrap"
	"github.com/redis/go-redis/v9"

	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/pkg/backend"
	"github.com/hyp3rd/dodkit/pkg/cmap"
	"github.com/hyp3rd/dodkit/pkg/limiter"
	"github.com/hyp3rd/dodkit/pkg/stats"
)

// Kit owns the statistics aggregator, the series collector and the named call limiters.
type Kit struct {
	aggregator     *stats.Aggregator                        // reports over ad hoc inputs
	collector      *stats.Collector                         // reports over stored series
	limiters       cmap.ConcurrentMap[*limiter.CallLimiter] // limiters by name
	limiterOptions []limiter.Option                         // applied to every limiter
	counterClient  *redis.Client                            // when set, limiters count in redis
	mgmtAddr       string                                   // management server address, empty when disabled
	mgmtOpts       []ManagementHTTPOption
	mgmt           *ManagementHTTPServer
}

// New builds a Kit from cfg and starts the management server if configured.
func New(ctx context.Context, cfg *Config) (*Kit, error) {
	if cfg == nil {
		cfg = NewConfig(constants.InMemoryBackend)
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	collector, err := stats.NewCollector(store, cfg.StatsOptions...)
	if err != nil {
		return nil, err
	}

	kit := &Kit{
		aggregator:     stats.NewAggregator(cfg.StatsOptions...),
		collector:      collector,
		limiters:       cmap.New[*limiter.CallLimiter](),
		limiterOptions: cfg.LimiterOptions,
	}

	ApplyOptions(kit, cfg.KitOptions...)

	if kit.mgmtAddr != "" {
		kit.mgmt = NewManagementHTTPServer(kit.mgmtAddr, kit.mgmtOpts...)

		err = kit.mgmt.Start(ctx, kit)
		if err != nil {
			return nil, err
		}
	}

	return kit, nil
}

// newStore builds the sample store selected by cfg.
func newStore(cfg *Config) (backend.ISampleStore, error) {
	switch cfg.BackendType {
	case constants.InMemoryBackend:
		return backend.NewInMemory(cfg.InMemoryOptions...)
	case constants.RedisBackend:
		return backend.NewRedis(cfg.RedisOptions...)
	default:
		return nil, ewrap.Newf("invalid backend type: %s", cfg.BackendType)
	}
}

// Statistics reports the requested statistics over the numeric entries of inputs.
func (k *Kit) Statistics(req stats.Request, inputs ...any) error {
	return k.aggregator.Report(req, inputs...)
}

// Compute summarizes the numeric entries of inputs.
func (k *Kit) Compute(inputs ...any) (stats.Summary, error) {
	return stats.Compute(inputs...)
}

// Collector returns the series collector.
func (k *Kit) Collector() *stats.Collector {
	return k.collector
}

// Limit registers a limiter named name around op.
// It returns sentinel.ErrLimiterExists when the name is already taken.
func (k *Kit) Limit(name string, op limiter.Operation, limit int64, opts ...limiter.Option) (*limiter.CallLimiter, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ewrap.Wrap(sentinel.ErrParamCannotBeEmpty, "name")
	}

	options := slices.Concat(k.limiterOptions, []limiter.Option{limiter.WithName(name)})

	if k.counterClient != nil {
		counter, err := backend.NewRedisCounter(k.counterClient, name)
		if err != nil {
			return nil, err
		}

		options = append(options, limiter.WithCounter(counter))
	}

	l, err := limiter.New(op, limit, slices.Concat(options, opts)...)
	if err != nil {
		return nil, err
	}

	if !k.limiters.SetIfAbsent(name, l) {
		return nil, ewrap.Wrap(sentinel.ErrLimiterExists, name)
	}

	return l, nil
}

// Limiter returns the limiter registered under name.
func (k *Kit) Limiter(name string) (*limiter.CallLimiter, bool) {
	return k.limiters.Get(name)
}

// Limiters returns a snapshot of every registered limiter, sorted by name.
func (k *Kit) Limiters(ctx context.Context) ([]limiter.Snapshot, error) {
	names := k.limiters.Keys()
	slices.Sort(names)

	snapshots := make([]limiter.Snapshot, 0, len(names))

	for _, name := range names {
		l, ok := k.limiters.Get(name)
		if !ok {
			continue
		}

		snap, err := l.Snapshot(ctx)
		if err != nil {
			return nil, err
		}

		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

// ManagementHTTPAddress returns the bound management address, empty when disabled.
func (k *Kit) ManagementHTTPAddress() string {
	if k.mgmt == nil {
		return ""
	}

	return k.mgmt.Address()
}

// Stop shuts the management server down.
func (k *Kit) Stop(ctx context.Context) error {
	if k.mgmt == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultMgmtShutdownTimeout)
	defer cancel()

	return k.mgmt.Shutdown(ctx)
}
