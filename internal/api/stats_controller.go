package api

import (
	"net/http"
	"strconv"

	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/gin-gonic/gin"
)

// StatsController 统计与审计控制器
type StatsController struct {
	statsService service.StatsService
	auditService service.AuditLogService
}

// NewStatsController 创建统计与审计控制器
func NewStatsController(statsService service.StatsService, auditService service.AuditLogService) *StatsController {
	return &StatsController{
		statsService: statsService,
		auditService: auditService,
	}
}

// Totals 全局统计
func (c *StatsController) Totals(ctx *gin.Context) {
	totals, err := c.statsService.Totals(CurrentPrincipal(ctx))
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, totals)
}

// DepartmentReportCounts 时间段内按部门统计日报数量
func (c *StatsController) DepartmentReportCounts(ctx *gin.Context) {
	start := ctx.Query("start")
	end := ctx.Query("end")
	if start == "" || end == "" {
		Error(ctx, http.StatusBadRequest, "start and end are required", "")
		return
	}

	counts, err := c.statsService.DepartmentReportCounts(CurrentPrincipal(ctx), start, end)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, counts)
}

// RecentAuditLogs 最近的审计记录,仅管理员路由可达
func (c *StatsController) RecentAuditLogs(ctx *gin.Context) {
	limit := 100
	if limitStr := ctx.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			Error(ctx, http.StatusBadRequest, "invalid limit", "")
			return
		}
		limit = parsed
	}

	logs, err := c.auditService.ListRecent(limit)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, logs)
}
