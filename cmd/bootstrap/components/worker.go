package components

import (
	"context"
	"log/slog"

	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/worker/dispatcher"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func(cfg config.Config) *dispatcher.Renderer {
			return dispatcher.NewRenderer(cfg.Notification.DashboardURL, cfg.Notification.BrandName)
		},
		func(cfg config.Config) config.NotificationConfig {
			return cfg.Notification
		},
		dispatcher.New,
	),
	fx.Invoke(startDispatcher),
)

func startDispatcher(lc fx.Lifecycle, d *dispatcher.Dispatcher, cfg config.Config) {
	if !cfg.Notification.Enabled {
		slog.Warn("notification dispatcher is disabled, queued notifications stay in the outbox")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
}
