package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"entitlement-service/internal/handler/api"
	"entitlement-service/internal/handler/middleware"
	"entitlement-service/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

type Handlers struct {
	Webhook     *api.WebhookHandler
	Quota       *api.QuotaHandler
	Entitlement *api.EntitlementHandler
	Purchase    *api.PurchaseHandler
	Offer       *api.OfferHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	httpMetrics *middleware.HTTPMetrics,
	gatherer prometheus.Gatherer,
	authMiddleware *middleware.AuthMiddleware,
	h Handlers,
) {
	setupMiddleware(engine, cfg, logger, httpMetrics)
	setupRoutes(engine, cfg, gatherer, authMiddleware, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, httpMetrics *middleware.HTTPMetrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	if httpMetrics != nil {
		engine.Use(httpMetrics.Middleware())
	}
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, cfg config.Config, gatherer prometheus.Gatherer, authMiddleware *middleware.AuthMiddleware, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Telemetry.EnableMetrics && gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	apiGroup := engine.Group("/api")
	{
		webhooks := apiGroup.Group("/webhooks")
		addRoutes(webhooks, []route{
			{Method: http.MethodPost, Path: "/checkout", Handler: h.Webhook.Checkout},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/offers", Handler: h.Offer.List},
		})

		authRequired := apiGroup.Group("")
		authRequired.Use(authMiddleware.RequireAuth())
		{
			ai := authRequired.Group("/ai")
			addRoutes(ai, []route{
				{Method: http.MethodGet, Path: "/quota", Handler: h.Quota.GetQuota},
				{Method: http.MethodPost, Path: "/consume", Handler: h.Quota.Consume},
				{Method: http.MethodPost, Path: "/check", Handler: h.Quota.Check},
			})

			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/entitlements", Handler: h.Entitlement.List},
				{Method: http.MethodGet, Path: "/purchases/:sessionId", Handler: h.Purchase.GetBySession},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		g.Handle(r.Method, r.Path, r.Handler)
	}
}
