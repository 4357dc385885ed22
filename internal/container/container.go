package container

import (
	"fmt"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/config"
	"github.com/dogukanveziroglu/DailyReporter/internal/database"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、仓储和服务
type Container struct {
	db             *gorm.DB
	tokens         *auth.TokenManager
	userService    service.UserService
	reportService  service.ReportService
	commentService service.CommentService
	orgService     service.OrgService
	statsService   service.StatsService
	auditService   service.AuditLogService
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	// 1. 初始化数据库（带重试机制）
	// 默认重试 3 次，初始间隔 1 秒，指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 2. 先跑账本式结构迁移,再做 AutoMigrate
	// 顺序不能颠倒:AutoMigrate 会补齐新列,破坏旧库结构的判定
	if outcome := database.EnsureSchemaUpToDate(db, logger); outcome.Err != nil {
		logger.WithError(outcome.Err).Warn("schema migration incomplete, continuing with current schema")
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. 初始化仓储
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// 4. 初始化服务
	auditService := service.NewAuditLogService(auditRepo)
	userService := service.NewUserService(userRepo, auditService)
	reportService := service.NewReportService(reportRepo, userRepo)
	commentService := service.NewCommentService(commentRepo, reportRepo)
	orgService := service.NewOrgService(departmentRepo, teamRepo, auditService)
	statsService := service.NewStatsService(db)

	// 5. 初始化 Token 管理器
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}

	return &Container{
		db:             db,
		tokens:         tokens,
		userService:    userService,
		reportService:  reportService,
		commentService: commentService,
		orgService:     orgService,
		statsService:   statsService,
		auditService:   auditService,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// TokenManager 获取 Token 管理器
func (c *Container) TokenManager() *auth.TokenManager {
	return c.tokens
}

// UserService 获取用户服务
func (c *Container) UserService() service.UserService {
	return c.userService
}

// ReportService 获取日报服务
func (c *Container) ReportService() service.ReportService {
	return c.reportService
}

// CommentService 获取评论服务
func (c *Container) CommentService() service.CommentService {
	return c.commentService
}

// OrgService 获取组织结构服务
func (c *Container) OrgService() service.OrgService {
	return c.orgService
}

// StatsService 获取统计服务
func (c *Container) StatsService() service.StatsService {
	return c.statsService
}

// AuditLogService 获取审计日志服务
func (c *Container) AuditLogService() service.AuditLogService {
	return c.auditService
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	return nil
}
