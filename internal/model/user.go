package model

import (
	"errors"
	"time"
)

// UserModel 用户数据模型
type UserModel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(64);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	FullName     string `gorm:"type:varchar(120)"`
	Role         string `gorm:"type:varchar(32);not null;default:user"` // 角色标识(见 auth 包)

	// DepartmentID 旧版单部门字段,多部门迁移后仅作为回填来源保留
	DepartmentID *uint `gorm:"index"`
	TeamID       *uint `gorm:"index"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// Validate 验证用户模型
func (um *UserModel) Validate() error {
	if um.Username == "" {
		return errors.New("username is required")
	}
	if um.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if um.Role == "" {
		return errors.New("user role is required")
	}
	return nil
}

// DisplayName 展示名称,优先使用全名
func (um *UserModel) DisplayName() string {
	if um.FullName != "" {
		return um.FullName
	}
	return um.Username
}

// UserDepartmentModel 用户-部门关联数据模型(多对多)
type UserDepartmentModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	UserID       uint      `gorm:"not null;uniqueIndex:uq_user_departments,priority:1"`
	DepartmentID uint      `gorm:"not null;uniqueIndex:uq_user_departments,priority:2"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName 指定表名
func (UserDepartmentModel) TableName() string {
	return "user_departments"
}
