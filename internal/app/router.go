package app

import (
	"balance_scale_backend/docs"
	"balance_scale_backend/internal/config"
	"balance_scale_backend/internal/middleware"
	"balance_scale_backend/internal/util"
	"balance_scale_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.Auth.Enabled, cfg.JWT.Secret))
	{
		a.registerGameRoutes(authGroup, c)
		a.registerProgressRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerGameRoutes(rg *gin.RouterGroup, c *controllers) {
	configs := rg.Group("/game-configurations")
	{
		configs.GET("", c.configuration.List)
		configs.GET("/:id", c.configuration.Get)

		// 配置的增删改仅限管理员
		configs.POST("", middleware.RoleMiddleware(util.RoleAdmin), c.configuration.Create)
		configs.PUT("/:id", middleware.RoleMiddleware(util.RoleAdmin), c.configuration.Update)
		configs.DELETE("/:id", middleware.RoleMiddleware(util.RoleAdmin), c.configuration.Delete)
	}

	sessions := rg.Group("/game-sessions")
	{
		sessions.POST("", c.session.Create)
		sessions.GET("", c.session.List)
		sessions.GET("/:id", c.session.Get)
		sessions.POST("/:id/attempt", c.session.RecordAttempt)
		sessions.GET("/:id/attempts", c.session.ListAttempts)
		sessions.POST("/:id/complete", c.session.Complete)
	}
}

func (a *App) registerProgressRoutes(rg *gin.RouterGroup, c *controllers) {
	progress := rg.Group("/progress")
	{
		progress.GET("", c.progress.List)
		progress.PUT("", c.progress.Upsert)
		progress.GET("/:configId", c.progress.Get)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.Auth.Enabled, cfg.JWT.Secret), middleware.RoleMiddleware(util.RoleAdmin))
	{
		admin.GET("/all-progress", c.admin.AllProgress)
		admin.GET("/user-attempts/:userId", c.admin.UserAttempts)
		admin.POST("/user-attempts/:userId/export", c.admin.ExportUserAttempts)

		// 本地存储的导出文件同样只对管理员开放
		if cfg.Object.Type == util.StorageLocal || cfg.Object.Type == "" {
			admin.Static("/exports", cfg.Object.LocalPath)
		}
	}
}
