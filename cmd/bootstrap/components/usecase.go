package components

import (
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/usecase"
	"entitlement-service/internal/usecase/commands"
	"entitlement-service/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) *commands.NotificationPlanner {
		return commands.NewNotificationPlanner(cfg.AWS.SNSTopicARN)
	},
	func(cfg config.Config) config.FulfillmentConfig {
		return cfg.Fulfillment
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewFulfillmentUseCase,
		commands.NewQuotaUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewQuotaQueries,
		queries.NewEntitlementQueries,
		queries.NewPurchaseQueries,
		queries.NewOfferQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
