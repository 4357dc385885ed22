package model

import "time"

// SchemaMigrationModel 迁移台账数据模型
// 每个迁移步骤的 key 至多记录一次,缺失即视为未执行
type SchemaMigrationModel struct {
	Key       string    `gorm:"primaryKey;type:varchar(128)"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (SchemaMigrationModel) TableName() string {
	return "schema_migrations"
}
