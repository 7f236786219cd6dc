package components

import (
	"entitlement-service/internal/handler"
	"entitlement-service/internal/handler/api"
	"entitlement-service/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewWebhookHandler,
		api.NewQuotaHandler,
		api.NewEntitlementHandler,
		api.NewPurchaseHandler,
		api.NewOfferHandler,
		newHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	webhook *api.WebhookHandler,
	quota *api.QuotaHandler,
	entitlement *api.EntitlementHandler,
	purchase *api.PurchaseHandler,
	offer *api.OfferHandler,
) handler.Handlers {
	return handler.Handlers{
		Webhook:     webhook,
		Quota:       quota,
		Entitlement: entitlement,
		Purchase:    purchase,
		Offer:       offer,
	}
}
