package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hyp3rd/dodkit"
	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/pkg/backend"
	redisstore "github.com/hyp3rd/dodkit/pkg/backend/redis"
	"github.com/hyp3rd/dodkit/pkg/limiter"
	"github.com/hyp3rd/dodkit/pkg/middleware"
	"github.com/hyp3rd/dodkit/pkg/repeat"
	"github.com/hyp3rd/dodkit/pkg/stats"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(context.Background(), logger)

	_ = logger.Sync()

	if err != nil {
		logger.Fatal("dodkit demo failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger) (err error) {
	cfg, closeStore, err := config(ctx)
	if err != nil {
		return err
	}

	defer closeStore()

	kit, err := dodkit.New(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		stopErr := kit.Stop(ctx)
		if stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	statistics(kit)
	fmt.Println("-----")

	err = callLimit(ctx, kit, logger)
	if err != nil {
		return err
	}

	fmt.Println("-----")

	err = repeater()
	if err != nil {
		return err
	}

	fmt.Println("-----")

	return service(ctx, kit, logger)
}

// config stores series and limiter counters in redis when REDIS_ADDR is set.
func config(ctx context.Context) (*dodkit.Config, func(), error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return dodkit.NewConfig(constants.InMemoryBackend), func() {}, nil
	}

	store, err := redisstore.New(redisstore.WithAddr(addr))
	if err != nil {
		return nil, nil, err
	}

	err = store.Ping(ctx)
	if err != nil {
		_ = store.Close()

		return nil, nil, err
	}

	cfg := dodkit.NewConfig(constants.RedisBackend)
	cfg.RedisOptions = append(cfg.RedisOptions, backend.WithRedisClient(store.Client))
	cfg.KitOptions = append(cfg.KitOptions, dodkit.WithRedisCounters(store.Client))

	return cfg, func() { _ = store.Close() }, nil
}

func statistics(kit *dodkit.Kit) {
	report := func(req stats.Request, inputs ...any) {
		if err := kit.Statistics(req, inputs...); err != nil {
			fmt.Println(err)
		}
	}

	report(stats.Ask("mean", "median", "quartile"), 1, 42, 360, 11, 64)
	fmt.Println("-----")
	report(stats.Ask("std", "var"), 5, 75, 450, 18, 597, 27474, 48575)
	fmt.Println("-----")
	report(stats.Ask("heheh", "kdekem", "dsdsd"), 5, 75, 450, 18, 597, 27474, 48575)
	fmt.Println("-----")
	report(stats.Ask("mean", "median", "quartile"))
}

// callLimit runs the limiters through the kit, so they count in redis when it is configured.
func callLimit(ctx context.Context, kit *dodkit.Kit, logger *zap.Logger) error {
	f, err := kit.Limit("f", func(context.Context, ...any) (any, error) { return "f()", nil }, 3,
		limiter.WithLogger(zap.NewStdLog(logger)))
	if err != nil {
		return err
	}

	g, err := kit.Limit("g", func(context.Context, ...any) (any, error) { return "g()", nil }, 1,
		limiter.WithLogger(zap.NewStdLog(logger)))
	if err != nil {
		return err
	}

	for i := range 3 {
		v, callErr := f.Call(ctx)
		fmt.Println(i, v, callErr)

		v, callErr = g.Call(ctx)
		fmt.Println(i, v, callErr)
	}

	snapshots, err := kit.Limiters(ctx)
	if err != nil {
		return err
	}

	for _, snap := range snapshots {
		fmt.Printf("%s: %d/%d %s\n", snap.Name, snap.Count, snap.Limit, snap.State)
	}

	return nil
}

func repeater() error {
	square, err := repeat.New(3, repeat.Square)
	if err != nil {
		return err
	}

	pow, err := repeat.New(1.5, repeat.Pow)
	if err != nil {
		return err
	}

	for range 3 {
		fmt.Println(square.Next())
	}

	fmt.Println("---")

	for range 3 {
		fmt.Println(pow.Next())
	}

	return nil
}

func service(ctx context.Context, kit *dodkit.Kit, logger *zap.Logger) error {
	var svc dodkit.Service = dodkit.NewService("slow", func(_ context.Context, args ...any) (any, error) {
		time.Sleep(time.Millisecond)

		return len(args), nil
	})

	svc, err := middleware.NewCallLimitMiddleware(svc, 5, limiter.WithLogger(zap.NewStdLog(logger)))
	if err != nil {
		return err
	}

	svc = dodkit.ApplyMiddleware(svc,
		func(next dodkit.Service) dodkit.Service {
			return middleware.NewLoggingMiddleware(next, zap.NewStdLog(logger))
		},
		func(next dodkit.Service) dodkit.Service {
			return middleware.NewStatsCollectorMiddleware(next, kit.Collector())
		},
	)

	for range 7 {
		_, _ = svc.Invoke(ctx, 1, 2)
	}

	return kit.Collector().Report(ctx, "slow"+constants.DurationSeriesSuffix, stats.Ask("mean", "median", "std"))
}
