package api

import (
	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/config"
	"github.com/dogukanveziroglu/DailyReporter/internal/container"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 配置路由
func SetupRoutes(c *container.Container, cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(SecurityHeadersMiddleware())
	router.Use(CORSMiddleware(&cfg.CORS))
	if cfg.RateLimit.RPS > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	// 健康检查
	healthController := NewHealthController(c.DB())
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	router.GET("/metrics", MetricsHandler)

	// 控制器
	authController := NewAuthController(c.UserService(), c.TokenManager())
	reportController := NewReportController(c.ReportService(), c.CommentService())
	commentController := NewCommentController(c.CommentService())
	userController := NewUserController(c.UserService())
	orgController := NewOrgController(c.OrgService())
	statsController := NewStatsController(c.StatsService(), c.AuditLogService())

	// API v1 路由组
	v1 := router.Group("/api/v1")

	// 公开路由
	v1.POST("/auth/login", authController.Login)

	// 需要认证的路由
	authed := v1.Group("")
	authed.Use(AuthMiddleware(c.TokenManager()))
	{
		authed.GET("/auth/me", authController.Me)
		authed.POST("/auth/change-password", authController.ChangePassword)

		// 日报
		reports := authed.Group("/reports")
		{
			reports.POST("", reportController.Save)
			reports.POST("/revisions", reportController.Revise)
			reports.GET("", reportController.ListMine)
			reports.GET("/:id/comments", commentController.ListForReport)
		}

		// 评论
		authed.POST("/comments", commentController.Create)

		// 组织结构
		authed.GET("/departments", orgController.ListDepartments)
		authed.GET("/departments/:id/reports", reportController.ListForDepartment)
		authed.GET("/departments/:id/missing", reportController.ListMissing)
		authed.GET("/teams", orgController.ListTeams)

		// 用户
		users := authed.Group("/users")
		{
			users.GET("", userController.List)
			users.GET("/:id", userController.Get)
			users.GET("/:id/departments", userController.ListDepartments)
		}

		// 统计
		stats := authed.Group("/stats")
		{
			stats.GET("/totals", statsController.Totals)
			stats.GET("/departments", statsController.DepartmentReportCounts)
		}

		// 管理员路由
		admin := authed.Group("/admin")
		admin.Use(RequireMinRole(auth.RoleAdmin))
		{
			admin.POST("/departments", orgController.CreateDepartment)
			admin.DELETE("/departments/:id", orgController.DeleteDepartment)
			admin.POST("/teams", orgController.CreateTeam)
			admin.DELETE("/teams/:id", orgController.DeleteTeam)
			admin.POST("/users", userController.Create)
			admin.PUT("/users/:id/role", userController.UpdateRoleTeam)
			admin.PUT("/users/:id/departments", userController.SetDepartments)
			admin.POST("/users/:id/reset-password", userController.ResetPassword)
			admin.DELETE("/users/:id", userController.Delete)
			admin.GET("/audit-logs", statsController.RecentAuditLogs)
		}
	}

	return router
}
