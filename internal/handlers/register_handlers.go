package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sahulatfin/microfin_backoffice/cmd/docs"
	"github.com/sahulatfin/microfin_backoffice/internal/core/services"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
	"github.com/sahulatfin/microfin_backoffice/internal/platform/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svcs *services.ServicesContainer) {
	// Health check stays outside the authenticated group.
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, cfg, svcs)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, svcs *services.ServicesContainer) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, svcs.Account)
	registerJournalRoutes(v1, svcs.Journal)
	registerDayBookRoutes(v1, svcs.DayBook)
	registerReportingRoutes(v1, svcs.Reporting)
	registerLoanRoutes(v1, svcs.Loan)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		// no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
