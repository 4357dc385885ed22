package service

import (
	"strings"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
	"github.com/dogukanveziroglu/DailyReporter/internal/utils"
)

// UserService 用户服务接口
type UserService interface {
	Authenticate(username, password string) (*model.UserModel, error)
	Create(p *auth.Principal, req *CreateUserRequest) (*model.UserModel, error)
	Get(p *auth.Principal, userID uint) (*model.UserModel, error)
	List(p *auth.Principal) ([]*model.UserModel, error)
	UpdateRoleTeam(p *auth.Principal, userID uint, role string, teamID *uint) error
	SetDepartments(p *auth.Principal, userID uint, departmentIDs []uint) error
	ListDepartmentsForUser(p *auth.Principal, userID uint) ([]*model.DepartmentModel, error)
	ChangePassword(p *auth.Principal, oldPassword, newPassword string) error
	ResetPassword(p *auth.Principal, userID uint, newPassword string) error
	Delete(p *auth.Principal, userID uint) error
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username      string `json:"username" binding:"required"` // 用户名
	Password      string `json:"password" binding:"required"` // 初始密码
	FullName      string `json:"full_name"`                   // 全名(可选)
	Role          string `json:"role"`                        // 角色,缺省为 user
	TeamID        *uint  `json:"team_id"`                     // 所属团队(可选)
	DepartmentIDs []uint `json:"department_ids"`              // 所属部门列表
}

// userService 用户服务实现
type userService struct {
	users    repository.UserRepository
	auditSvc AuditLogService
}

// NewUserService 创建用户服务
func NewUserService(users repository.UserRepository, auditSvc AuditLogService) UserService {
	return &userService{users: users, auditSvc: auditSvc}
}

// Authenticate 用户名密码认证
// 用户不存在与密码错误返回同一错误,不泄露存在性
func (s *userService) Authenticate(username, password string) (*model.UserModel, error) {
	user, err := s.users.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Create 创建用户,仅管理员
func (s *userService) Create(p *auth.Principal, req *CreateUserRequest) (*model.UserModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if err := utils.ValidateUsername(req.Username); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := auth.NormalizeRole(req.Role)
	if role == auth.RoleAnon {
		role = auth.RoleUser
	}

	user := &model.UserModel{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		TeamID:       req.TeamID,
	}
	if err := s.users.Create(user, req.DepartmentIDs); err != nil {
		return nil, err
	}

	s.auditSvc.Record(p.UserID, "user.create", "user", user.ID, map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})
	return user, nil
}

// Get 查询用户,本人或 lead 及以上
func (s *userService) Get(p *auth.Principal, userID uint) (*model.UserModel, error) {
	if p == nil || p.UserID == 0 {
		return nil, auth.ErrForbidden
	}
	if p.UserID != userID {
		if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
			return nil, err
		}
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List 查询全部用户,lead 及以上
func (s *userService) List(p *auth.Principal) ([]*model.UserModel, error) {
	if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
		return nil, err
	}
	return s.users.List()
}

// UpdateRoleTeam 更新用户角色与团队,仅管理员
func (s *userService) UpdateRoleTeam(p *auth.Principal, userID uint, role string, teamID *uint) error {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return err
	}
	normalized := auth.NormalizeRole(role)
	if err := s.users.UpdateRoleTeam(userID, normalized, teamID); err != nil {
		return err
	}
	s.auditSvc.Record(p.UserID, "user.update_role_team", "user", userID, map[string]interface{}{
		"role": normalized,
	})
	return nil
}

// SetDepartments 同步用户部门归属,仅管理员
func (s *userService) SetDepartments(p *auth.Principal, userID uint, departmentIDs []uint) error {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.users.SetDepartments(userID, departmentIDs); err != nil {
		return err
	}
	s.auditSvc.Record(p.UserID, "user.set_departments", "user", userID, map[string]interface{}{
		"department_ids": departmentIDs,
	})
	return nil
}

// ListDepartmentsForUser 查询用户部门,本人或 lead 及以上
func (s *userService) ListDepartmentsForUser(p *auth.Principal, userID uint) ([]*model.DepartmentModel, error) {
	if p == nil || p.UserID == 0 {
		return nil, auth.ErrForbidden
	}
	if p.UserID != userID {
		if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
			return nil, err
		}
	}
	return s.users.ListDepartmentsForUser(userID)
}

// ChangePassword 修改本人密码,需校验旧密码
func (s *userService) ChangePassword(p *auth.Principal, oldPassword, newPassword string) error {
	if err := auth.RequireMinimum(p, auth.RoleUser); err != nil {
		return err
	}
	user, err := s.users.FindByID(p.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !auth.VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(p.UserID, hash)
}

// ResetPassword 重置指定用户密码,仅管理员
func (s *userService) ResetPassword(p *auth.Principal, userID uint, newPassword string) error {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(userID, hash); err != nil {
		return err
	}
	s.auditSvc.Record(p.UserID, "user.reset_password", "user", userID, nil)
	return nil
}

// Delete 删除用户,仅管理员
func (s *userService) Delete(p *auth.Principal, userID uint) error {
	if err := auth.RequireMinimum(p, auth.RoleAdmin); err != nil {
		return err
	}
	if err := s.users.Delete(userID); err != nil {
		return err
	}
	s.auditSvc.Record(p.UserID, "user.delete", "user", userID, nil)
	return nil
}
