package handlers

import (
	"net/http"

	"github.com/SscSPs/finance_ledger_app/cmd/docs"
	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/SscSPs/finance_ledger_app/internal/platform/analytics"
	"github.com/SscSPs/finance_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// Integrations are the optional collaborators of the HTTP layer. Nil fields disable
// the feature they back.
type Integrations struct {
	UploadLimiter *limiter.Limiter
	Posthog       *analytics.PosthogClient
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	integrations Integrations,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, integrations)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	integrations Integrations,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.PosthogMiddleware(integrations.Posthog),
	)

	var uploadLimit gin.HandlerFunc
	if integrations.UploadLimiter != nil {
		uploadLimit = middleware.RateLimit(integrations.UploadLimiter)
	}

	// Delegate route registration to specific handlers, passing required services
	registerAccountRoutes(v1, service.Account)
	registerSequenceRoutes(v1, service.Sequence)
	registerPostingRoutes(v1, service.Posting)
	registerJournalRoutes(v1, service.Posting)
	registerLedgerRoutes(v1, service.Ledger)
	registerStatementRoutes(v1, newStatementHandler(service.Statement, integrations.Posthog, cfg.Statement.MaxUploadBytes), uploadLimit)
	registerReconciliationRoutes(v1, service.Reconciliation, integrations.Posthog)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
