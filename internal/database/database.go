package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/config"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// PoolConfig 连接池配置
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // 秒
	ConnMaxIdleTime int // 秒
}

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// GetPoolConfig 获取连接池配置
func GetPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: 3600,
		ConnMaxIdleTime: 600,
	}
}

// Connect 连接数据库
// TranslateError 统一将驱动层唯一约束冲突转换为 gorm.ErrDuplicatedKey,
// 日报补录路径依赖该错误识别冲突
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Path)
	case "postgres":
		dialector = postgres.Open(BuildDSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	poolConfig := GetPoolConfig()
	if cfg.MaxIdleConns > 0 {
		poolConfig.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.ConnMaxLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolConfig.ConnMaxIdleTime = cfg.ConnMaxIdleTime
	}

	sqlDB.SetMaxIdleConns(poolConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(poolConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(poolConfig.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(poolConfig.ConnMaxIdleTime) * time.Second)

	return db, nil
}

// ConnectWithRetry 带重试的数据库连接
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, retryInterval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		// 如果不是最后一次重试,等待后重试
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
			retryInterval *= 2 // 指数退避
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// Migrate 创建或更新数据库结构
// 必须在 EnsureSchemaUpToDate 之后调用:台账迁移先处理旧代结构,
// AutoMigrate 再补齐缺失的表/列(全新安装路径)
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.DepartmentModel{},
		&model.TeamModel{},
		&model.UserModel{},
		&model.UserDepartmentModel{},
		&model.ReportModel{},
		&model.CommentModel{},
		&model.AuditLogModel{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	if err := CreateIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// CreateIndexes 创建数据库索引
func CreateIndexes(db *gorm.DB) error {
	// reports 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reports_dept_date ON reports(department_id, date)").Error; err != nil {
		return fmt.Errorf("failed to create idx_reports_dept_date: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reports_user_date ON reports(user_id, date)").Error; err != nil {
		return fmt.Errorf("failed to create idx_reports_user_date: %w", err)
	}

	// comments 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_comments_report_created ON comments(report_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create idx_comments_report_created: %w", err)
	}

	// audit_logs 表索引
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_audit_actor ON audit_logs(actor_user_id)").Error; err != nil {
		return fmt.Errorf("failed to create idx_audit_actor: %w", err)
	}

	return nil
}

// CheckHealth 检查数据库连接健康状态
func CheckHealth(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return false
	}

	return true
}
