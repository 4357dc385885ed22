package model

import (
	"errors"
	"time"
)

// DepartmentModel 部门数据模型
type DepartmentModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (DepartmentModel) TableName() string {
	return "departments"
}

// Validate 验证部门模型
func (dm *DepartmentModel) Validate() error {
	if dm.Name == "" {
		return errors.New("department name is required")
	}
	return nil
}

// TeamModel 团队数据模型
// LeadUserID 仅作展示用途,不授予任何权限(权限由用户角色决定)
type TeamModel struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(120);not null"`
	DepartmentID *uint     `gorm:"index"` // 所属部门 ID(可选)
	LeadUserID   *uint     // 指定负责人 ID(可选,非权威)
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName 指定表名
func (TeamModel) TableName() string {
	return "teams"
}

// Validate 验证团队模型
func (tm *TeamModel) Validate() error {
	if tm.Name == "" {
		return errors.New("team name is required")
	}
	return nil
}
