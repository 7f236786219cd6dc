package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"entitlement-service/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedis,
	),
)

// NewRedis returns a nil client when no address is configured; the session
// lock then runs in process.
func NewRedis(lc fx.Lifecycle, cfg config.Config) redis.UniversalClient {
	if !cfg.Redis.Enabled() {
		slog.Warn("REDIS_ADDRESS is not set, session lock is local to this process")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// an unreachable Redis is not fatal: the lock fails open
			if err := rdb.Ping(ctx).Err(); err != nil {
				slog.Warn("redis ping failed", "address", cfg.Redis.Address, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})

	return rdb
}
