package model

import (
	"errors"
	"time"
)

// AuditLogModel 审计日志数据模型
type AuditLogModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	ActorUserID uint   `gorm:"not null;index"`
	Action      string `gorm:"type:varchar(64);not null"`
	Entity      string `gorm:"type:varchar(32);not null;index:idx_audit_entity,priority:1"`
	EntityID    uint   `gorm:"not null;index:idx_audit_entity,priority:2"`
	DiffJSON    string `gorm:"type:text"` // 变更内容(JSON,可选)

	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// Validate 验证审计日志模型
func (am *AuditLogModel) Validate() error {
	if am.ActorUserID == 0 {
		return errors.New("audit actor is required")
	}
	if am.Action == "" {
		return errors.New("audit action is required")
	}
	if am.Entity == "" {
		return errors.New("audit entity is required")
	}
	return nil
}
