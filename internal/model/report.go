package model

import (
	"errors"
	"time"
)

// ReportModel 日报数据模型
// 唯一性约束: 同一用户在同一部门的同一天至多一条日报
type ReportModel struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	UserID       uint   `gorm:"not null;index;uniqueIndex:uq_reports_user_dept_date,priority:1"`
	DepartmentID uint   `gorm:"not null;index;uniqueIndex:uq_reports_user_dept_date,priority:2"`
	// 日期以 YYYY-MM-DD 纯文本存储:声明为 date 类型会被 sqlite 驱动
	// 解析成 time.Time,回读再写会破坏槽位键
	Date         string `gorm:"type:varchar(10);not null;index;uniqueIndex:uq_reports_user_dept_date,priority:3"`
	Content      string `gorm:"type:text;not null"`
	Project      string `gorm:"type:varchar(120)"` // 项目标签(可选)
	TagsJSON     string `gorm:"type:text"`         // 附加元数据(JSON,如编辑标记)

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (ReportModel) TableName() string {
	return "reports"
}

// Validate 验证日报模型
func (rm *ReportModel) Validate() error {
	if rm.UserID == 0 {
		return errors.New("report user is required")
	}
	if rm.DepartmentID == 0 {
		return errors.New("report department is required")
	}
	if rm.Date == "" {
		return errors.New("report date is required")
	}
	if rm.Content == "" {
		return errors.New("report content is required")
	}
	return nil
}
