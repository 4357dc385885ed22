package service

import (
	"strings"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/metrics"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
	"github.com/dogukanveziroglu/DailyReporter/internal/utils"
)

// ReportService 日报服务接口
type ReportService interface {
	Upsert(p *auth.Principal, req *SaveReportRequest) (*model.ReportModel, error)
	AppendRevision(p *auth.Principal, req *ReviseReportRequest) (*model.ReportModel, error)
	ListForUser(p *auth.Principal, filter *repository.UserReportFilter) ([]*model.ReportModel, error)
	ListForDepartmentAndDate(p *auth.Principal, departmentID uint, date string) ([]*model.ReportModel, error)
	MissingForDepartmentAndDate(p *auth.Principal, departmentID uint, date string) ([]*model.UserModel, error)
}

// SaveReportRequest 保存日报请求(当日编辑,就地覆盖)
type SaveReportRequest struct {
	DepartmentID uint   `json:"department_id" binding:"required"` // 部门 ID
	Date         string `json:"date" binding:"required"`          // 日期 YYYY-MM-DD
	Content      string `json:"content"`                          // 日报内容
	Project      string `json:"project"`                          // 项目标签(可选)
	TagsJSON     string `json:"tags_json"`                        // 附加元数据(可选)
}

// ReviseReportRequest 补录修订请求(记录编辑痕迹)
type ReviseReportRequest struct {
	DepartmentID uint   `json:"department_id" binding:"required"` // 部门 ID
	Date         string `json:"date" binding:"required"`          // 日期 YYYY-MM-DD
	Content      string `json:"content"`                          // 日报内容
	Project      string `json:"project"`                          // 项目标签(可选)
	EditedAt     string `json:"edited_at"`                        // 编辑时间戳,缺省为当前时间
}

// reportService 日报服务实现
type reportService struct {
	reports repository.ReportRepository
	users   repository.UserRepository
}

// NewReportService 创建日报服务
func NewReportService(reports repository.ReportRepository, users repository.UserRepository) ReportService {
	return &reportService{reports: reports, users: users}
}

// validateSlot 槽位写入的公共校验:登录、日期格式、内容非空、部门归属
func (s *reportService) validateSlot(p *auth.Principal, departmentID uint, date, content string) error {
	if err := auth.RequireMinimum(p, auth.RoleUser); err != nil {
		return err
	}
	if err := utils.ValidateDate(date); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	// 只能写入自己所属部门
	departmentIDs, err := s.users.DepartmentIDs(p.UserID)
	if err != nil {
		return err
	}
	for _, did := range departmentIDs {
		if did == departmentID {
			return nil
		}
	}
	return auth.ErrForbidden
}

// Upsert 保存当日日报,已存在则覆盖
func (s *reportService) Upsert(p *auth.Principal, req *SaveReportRequest) (*model.ReportModel, error) {
	if err := s.validateSlot(p, req.DepartmentID, req.Date, req.Content); err != nil {
		return nil, err
	}

	report, err := s.reports.Upsert(p.UserID, req.DepartmentID, req.Date, strings.TrimSpace(req.Content), req.Project, req.TagsJSON)
	if err != nil {
		return nil, err
	}

	metrics.RecordReportSubmitted()
	return report, nil
}

// AppendRevision 补录修订,冲突合并由仓储层完成
func (s *reportService) AppendRevision(p *auth.Principal, req *ReviseReportRequest) (*model.ReportModel, error) {
	if err := s.validateSlot(p, req.DepartmentID, req.Date, req.Content); err != nil {
		return nil, err
	}

	editedAt := req.EditedAt
	if editedAt == "" {
		editedAt = time.Now().UTC().Format(time.RFC3339)
	}

	report, err := s.reports.AppendRevision(p.UserID, req.DepartmentID, req.Date, strings.TrimSpace(req.Content), req.Project, editedAt)
	if err != nil {
		return nil, err
	}

	metrics.RecordReportRevision()
	return report, nil
}

// ListForUser 查询日报列表,查他人需要 lead 及以上
func (s *reportService) ListForUser(p *auth.Principal, filter *repository.UserReportFilter) ([]*model.ReportModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleUser); err != nil {
		return nil, err
	}
	if filter.UserID != p.UserID {
		if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
			return nil, err
		}
	}
	return s.reports.ListForUser(filter)
}

// ListForDepartmentAndDate 部门某天的日报,lead 及以上
func (s *reportService) ListForDepartmentAndDate(p *auth.Principal, departmentID uint, date string) ([]*model.ReportModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
		return nil, err
	}
	if err := utils.ValidateDate(date); err != nil {
		return nil, ErrInvalidDate
	}
	return s.reports.ListForDepartmentAndDate(departmentID, date)
}

// MissingForDepartmentAndDate 部门某天未提交日报的成员,lead 及以上
func (s *reportService) MissingForDepartmentAndDate(p *auth.Principal, departmentID uint, date string) ([]*model.UserModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
		return nil, err
	}
	if err := utils.ValidateDate(date); err != nil {
		return nil, ErrInvalidDate
	}
	return s.reports.MissingForDepartmentAndDate(departmentID, date)
}
