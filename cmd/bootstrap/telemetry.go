package bootstrap

import (
	"context"

	"entitlement-service/internal/handler/middleware"
	"entitlement-service/internal/infra/metrics"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/usecase/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const tracerName = "entitlement-service"

var TelemetryModule = fx.Module("telemetry",
	fx.Provide(
		NewTracerProvider,
		NewTracer,
		NewRegistry,
		func(reg *prometheus.Registry) prometheus.Registerer { return reg },
		func(reg *prometheus.Registry) prometheus.Gatherer { return reg },
		fx.Annotate(
			metrics.NewRecorder,
			fx.As(new(shared.Metrics)),
		),
		middleware.NewHTTPMetrics,
	),
)

// NewTracerProvider samples spans and attaches trace ids to log lines. No
// exporter is registered; spans stay in process.
func NewTracerProvider(lc fx.Lifecycle, cfg config.Config) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Telemetry.SampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.Telemetry.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
	return tp
}

func NewTracer(tp *sdktrace.TracerProvider) trace.Tracer {
	return tp.Tracer(tracerName)
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
