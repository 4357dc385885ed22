package service

import (
	"encoding/json"

	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
)

// AuditLogService 审计日志服务接口
type AuditLogService interface {
	Record(actorUserID uint, action, entity string, entityID uint, diff map[string]interface{})
	FindByEntity(entity string, entityID uint) ([]*model.AuditLogModel, error)
	ListRecent(limit int) ([]*model.AuditLogModel, error)
}

// auditLogService 审计日志服务实现
type auditLogService struct {
	logs repository.AuditLogRepository
}

// NewAuditLogService 创建审计日志服务
func NewAuditLogService(logs repository.AuditLogRepository) AuditLogService {
	return &auditLogService{logs: logs}
}

// Record 追加审计记录
// 审计失败不影响业务操作,错误被吞掉
func (s *auditLogService) Record(actorUserID uint, action, entity string, entityID uint, diff map[string]interface{}) {
	var diffJSON string
	if diff != nil {
		if data, err := json.Marshal(diff); err == nil {
			diffJSON = string(data)
		}
	}

	_ = s.logs.Save(&model.AuditLogModel{
		ActorUserID: actorUserID,
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		DiffJSON:    diffJSON,
	})
}

// FindByEntity 查询实体的审计记录
func (s *auditLogService) FindByEntity(entity string, entityID uint) ([]*model.AuditLogModel, error) {
	return s.logs.FindByEntity(entity, entityID)
}

// ListRecent 查询最近的审计记录
func (s *auditLogService) ListRecent(limit int) ([]*model.AuditLogModel, error) {
	return s.logs.ListRecent(limit)
}
