package service

import (
	"strings"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
)

// OrgService 组织结构服务接口(部门/团队)
type OrgService interface {
	CreateDepartment(p *auth.Principal, name string) (*model.DepartmentModel, error)
	ListDepartments(p *auth.Principal) ([]*model.DepartmentModel, error)
	DeleteDepartment(p *auth.Principal, id uint) error
	CreateTeam(p *auth.Principal, req *CreateTeamRequest) (*model.TeamModel, error)
	ListTeams(p *auth.Principal) ([]*model.TeamModel, error)
	DeleteTeam(p *auth.Principal, id uint) error
}

// CreateTeamRequest 创建团队请求
type CreateTeamRequest struct {
	Name         string `json:"name" binding:"required"` // 团队名称
	DepartmentID *uint  `json:"department_id"`           // 所属部门(可选)
	LeadUserID   *uint  `json:"lead_user_id"`            // 指定负责人(可选,非权威)
}

// orgService 组织结构服务实现
type orgService struct {
	departments repository.DepartmentRepository
	teams       repository.TeamRepository
	auditSvc    AuditLogService
}

// NewOrgService 创建组织结构服务
func NewOrgService(departments repository.DepartmentRepository, teams repository.TeamRepository, auditSvc AuditLogService) OrgService {
	return &orgService{departments: departments, teams: teams, auditSvc: auditSvc}
}

// CreateDepartment 创建部门,仅管理员
func (s *orgService) CreateDepartment(p *auth.Principal, name string) (*model.DepartmentModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyContent
	}

	department := &model.DepartmentModel{Name: name}
	if err := s.departments.Create(department); err != nil {
		return nil, err
	}

	s.auditSvc.Record(p.UserID, "department.create", "department", department.ID, map[string]interface{}{
		"name": name,
	})
	return department, nil
}

// ListDepartments 查询部门列表,登录即可
func (s *orgService) ListDepartments(p *auth.Principal) ([]*model.DepartmentModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleUser); err != nil {
		return nil, err
	}
	return s.departments.List()
}

// DeleteDepartment 删除部门,仅管理员
func (s *orgService) DeleteDepartment(p *auth.Principal, id uint) error {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.departments.Delete(id); err != nil {
		return err
	}
	s.auditSvc.Record(p.UserID, "department.delete", "department", id, nil)
	return nil
}

// CreateTeam 创建团队,仅管理员
func (s *orgService) CreateTeam(p *auth.Principal, req *CreateTeamRequest) (*model.TeamModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyContent
	}

	team := &model.TeamModel{
		Name:         name,
		DepartmentID: req.DepartmentID,
		LeadUserID:   req.LeadUserID,
	}
	if err := s.teams.Create(team); err != nil {
		return nil, err
	}

	s.auditSvc.Record(p.UserID, "team.create", "team", team.ID, map[string]interface{}{
		"name": name,
	})
	return team, nil
}

// ListTeams 查询团队列表,登录即可
func (s *orgService) ListTeams(p *auth.Principal) ([]*model.TeamModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleUser); err != nil {
		return nil, err
	}
	return s.teams.List()
}

// DeleteTeam 删除团队,仅管理员
func (s *orgService) DeleteTeam(p *auth.Principal, id uint) error {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.teams.Delete(id); err != nil {
		return err
	}
	s.auditSvc.Record(p.UserID, "team.delete", "team", id, nil)
	return nil
}
