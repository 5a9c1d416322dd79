package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/clerkship-scheduler/internal/handler"
	internalmiddleware "github.com/noah-isme/clerkship-scheduler/internal/middleware"
	"github.com/noah-isme/clerkship-scheduler/internal/models"
	"github.com/noah-isme/clerkship-scheduler/internal/service"
	"github.com/noah-isme/clerkship-scheduler/pkg/config"
	"github.com/noah-isme/clerkship-scheduler/pkg/logger"
	corsmiddleware "github.com/noah-isme/clerkship-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/clerkship-scheduler/pkg/middleware/requestid"
)

type routes struct {
	tokens     *service.TokenService
	metrics    *service.MetricsService
	scheduling *handler.SchedulingHandler
	teams      *handler.TeamHandler
	exports    *handler.ExportHandler
	system     *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, h routes) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(h.metrics))

	r.GET("/health", h.system.Health)
	r.GET("/ready", h.system.Ready)
	r.GET("/metrics", h.system.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(h.tokens))
	staff := internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleCoordinator)

	api.GET("/metrics/summary", internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin), h.system.Summary)

	sched := api.Group("/scheduling", staff)
	sched.POST("/gap-fill", h.scheduling.GapFill)
	sched.POST("/runs", h.scheduling.SubmitRun)
	sched.GET("/runs/:id", h.scheduling.GetRun)
	sched.GET("/summary", h.scheduling.Summary)

	teams := api.Group("/teams", staff)
	teams.POST("/validate", h.teams.Validate)
	teams.POST("", h.teams.Create)
	teams.GET("/fallbacks", h.teams.Fallbacks)

	if h.exports != nil {
		api.GET("/assignments/export", staff, h.exports.ExportAssignments)
	}

	return r
}
