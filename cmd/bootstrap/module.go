package bootstrap

import (
	"entitlement-service/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TelemetryModule,
	DBModule,
	RedisModule,
	AWSModule,
	JWTModule,
	components.PersistenceModule,
	components.LockModule,
	components.UseCaseModule,
	components.WorkerModule,
	components.HandlerModule,
)
