package components

import (
	"entitlement-service/internal/infra/readstore"
	"entitlement-service/internal/infra/repository"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/infra/uow"
	"entitlement-service/internal/usecase/queries"
	"entitlement-service/internal/worker/dispatcher"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

// Per-transaction repositories are built by the unit of work; only the
// query side and the outbox need to be provided here.
var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Quota
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.QuotaReadQueries)),
		),
		fx.Annotate(
			readstore.NewQuotaReadStore,
			fx.As(new(queries.QuotaReadStore)),
		),
		// Entitlement
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.EntitlementReadQueries)),
		),
		fx.Annotate(
			readstore.NewEntitlementReadStore,
			fx.As(new(queries.EntitlementReadStore)),
		),
		// Purchase
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.PurchaseReadQueries)),
		),
		fx.Annotate(
			readstore.NewPurchaseReadStore,
			fx.As(new(queries.PurchaseReadStore)),
		),
		// Offer
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.OfferReadQueries)),
		),
		fx.Annotate(
			readstore.NewOfferReadStore,
			fx.As(new(queries.OfferReadStore)),
		),
		// Notification outbox
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.NotificationReadQueries)),
		),
		fx.Annotate(
			readstore.NewNotificationReadStore,
			fx.As(new(dispatcher.JobClaimer)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		uow.NewPostgresUoW,
		// Notification outbox status
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.NotificationWriteQueries)),
		),
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(dispatcher.JobStatusWriter)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}
