package api

import (
	"net/http"
	"strconv"

	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/gin-gonic/gin"
)

// UserController 用户管理控制器
type UserController struct {
	userService service.UserService
}

// NewUserController 创建用户管理控制器
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// UpdateRoleTeamRequest 更新角色与团队请求
type UpdateRoleTeamRequest struct {
	Role   string `json:"role" binding:"required"` // 角色
	TeamID *uint  `json:"team_id"`                 // 所属团队(可选)
}

// SetDepartmentsRequest 设置部门归属请求
type SetDepartmentsRequest struct {
	DepartmentIDs []uint `json:"department_ids"` // 部门 ID 列表
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"` // 新密码
}

// Create 创建用户
func (c *UserController) Create(ctx *gin.Context) {
	var req service.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, err := c.userService.Create(CurrentPrincipal(ctx), &req)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, user)
}

// List 查询用户列表
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.userService.List(CurrentPrincipal(ctx))
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, users)
}

// Get 查询单个用户
func (c *UserController) Get(ctx *gin.Context) {
	userID, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	user, err := c.userService.Get(CurrentPrincipal(ctx), userID)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, user)
}

// UpdateRoleTeam 更新用户角色与团队
func (c *UserController) UpdateRoleTeam(ctx *gin.Context) {
	userID, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	var req UpdateRoleTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.userService.UpdateRoleTeam(CurrentPrincipal(ctx), userID, req.Role, req.TeamID); err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// SetDepartments 设置用户部门归属
func (c *UserController) SetDepartments(ctx *gin.Context) {
	userID, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	var req SetDepartmentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.userService.SetDepartments(CurrentPrincipal(ctx), userID, req.DepartmentIDs); err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// ListDepartments 查询用户部门归属
func (c *UserController) ListDepartments(ctx *gin.Context) {
	userID, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	departments, err := c.userService.ListDepartmentsForUser(CurrentPrincipal(ctx), userID)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, departments)
}

// ResetPassword 重置用户密码
func (c *UserController) ResetPassword(ctx *gin.Context) {
	userID, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := c.userService.ResetPassword(CurrentPrincipal(ctx), userID, req.NewPassword); err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// Delete 删除用户
func (c *UserController) Delete(ctx *gin.Context) {
	userID, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	if err := c.userService.Delete(CurrentPrincipal(ctx), userID); err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// parseIDParam 解析路径中的数字 ID,失败时已写出响应
func parseIDParam(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid id", err.Error())
		return 0, err
	}
	return uint(id), nil
}
