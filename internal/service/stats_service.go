package service

import (
	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"gorm.io/gorm"
)

// StatsService 统计服务接口
type StatsService interface {
	Totals(p *auth.Principal) (*Totals, error)
	DepartmentReportCounts(p *auth.Principal, start, end string) ([]DepartmentReportCount, error)
}

// Totals 全局统计
type Totals struct {
	Users   int64 `json:"users"`
	Reports int64 `json:"reports"`
}

// DepartmentReportCount 按部门统计的日报数量
type DepartmentReportCount struct {
	DepartmentID uint   `json:"department_id"`
	Name         string `json:"name"`
	Count        int64  `json:"count"`
}

// statsService 统计服务实现
type statsService struct {
	db *gorm.DB
}

// NewStatsService 创建统计服务
func NewStatsService(db *gorm.DB) StatsService {
	return &statsService{db: db}
}

// Totals 用户与日报总量,lead 及以上
func (s *statsService) Totals(p *auth.Principal) (*Totals, error) {
	if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
		return nil, err
	}

	var totals Totals
	if err := s.db.Model(&model.UserModel{}).Count(&totals.Users).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.ReportModel{}).Count(&totals.Reports).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}

// DepartmentReportCounts 时间段内按部门统计日报数量,lead 及以上
func (s *statsService) DepartmentReportCounts(p *auth.Principal, start, end string) ([]DepartmentReportCount, error) {
	if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
		return nil, err
	}

	var counts []DepartmentReportCount
	err := s.db.Model(&model.ReportModel{}).
		Select("reports.department_id AS department_id, departments.name AS name, COUNT(*) AS count").
		Joins("JOIN departments ON departments.id = reports.department_id").
		Where("reports.date >= ? AND reports.date <= ?", start, end).
		Group("reports.department_id, departments.name").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
