package api

import (
	"net/http"

	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/gin-gonic/gin"
)

// OrgController 组织结构控制器
type OrgController struct {
	orgService service.OrgService
}

// NewOrgController 创建组织结构控制器
func NewOrgController(orgService service.OrgService) *OrgController {
	return &OrgController{
		orgService: orgService,
	}
}

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"` // 部门名称
}

// CreateDepartment 创建部门
func (c *OrgController) CreateDepartment(ctx *gin.Context) {
	var req CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	department, err := c.orgService.CreateDepartment(CurrentPrincipal(ctx), req.Name)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, department)
}

// ListDepartments 查询部门列表
func (c *OrgController) ListDepartments(ctx *gin.Context) {
	departments, err := c.orgService.ListDepartments(CurrentPrincipal(ctx))
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, departments)
}

// DeleteDepartment 删除部门
func (c *OrgController) DeleteDepartment(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	if err := c.orgService.DeleteDepartment(CurrentPrincipal(ctx), id); err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, nil)
}

// CreateTeam 创建团队
func (c *OrgController) CreateTeam(ctx *gin.Context) {
	var req service.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	team, err := c.orgService.CreateTeam(CurrentPrincipal(ctx), &req)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, team)
}

// ListTeams 查询团队列表
func (c *OrgController) ListTeams(ctx *gin.Context) {
	teams, err := c.orgService.ListTeams(CurrentPrincipal(ctx))
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, teams)
}

// DeleteTeam 删除团队
func (c *OrgController) DeleteTeam(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		return
	}

	if err := c.orgService.DeleteTeam(CurrentPrincipal(ctx), id); err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, nil)
}
