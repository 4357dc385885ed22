package repository

import (
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"gorm.io/gorm"
)

// AuditLogRepository 审计日志仓储接口
type AuditLogRepository interface {
	Save(log *model.AuditLogModel) error
	FindByEntity(entity string, entityID uint) ([]*model.AuditLogModel, error)
	ListRecent(limit int) ([]*model.AuditLogModel, error)
}

// auditLogRepository 审计日志仓储实现
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建审计日志仓储
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Save 保存审计日志
func (r *auditLogRepository) Save(log *model.AuditLogModel) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(log).Error
}

// FindByEntity 查找某实体的审计记录,新记录在前
func (r *auditLogRepository) FindByEntity(entity string, entityID uint) ([]*model.AuditLogModel, error) {
	var logs []*model.AuditLogModel
	err := r.db.Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	return logs, err
}

// ListRecent 查找最近的审计记录
func (r *auditLogRepository) ListRecent(limit int) ([]*model.AuditLogModel, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []*model.AuditLogModel
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
