package api

import (
	"net/http"
	"strconv"

	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/gin-gonic/gin"
)

// ReportController 日报控制器
type ReportController struct {
	reportService  service.ReportService
	commentService service.CommentService
}

// NewReportController 创建日报控制器
func NewReportController(reportService service.ReportService, commentService service.CommentService) *ReportController {
	return &ReportController{
		reportService:  reportService,
		commentService: commentService,
	}
}

// Save 保存当日日报,已存在则覆盖
func (c *ReportController) Save(ctx *gin.Context) {
	var req service.SaveReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	report, err := c.reportService.Upsert(CurrentPrincipal(ctx), &req)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, report)
}

// Revise 补录修订,记录编辑痕迹
func (c *ReportController) Revise(ctx *gin.Context) {
	var req service.ReviseReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	report, err := c.reportService.AppendRevision(CurrentPrincipal(ctx), &req)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, report)
}

// ListMine 查询某用户的日报列表
// user_id 缺省为本人,查他人需要 lead 及以上
func (c *ReportController) ListMine(ctx *gin.Context) {
	p := CurrentPrincipal(ctx)

	filter := &repository.UserReportFilter{
		UserID: p.UserID,
		Start:  ctx.Query("start"),
		End:    ctx.Query("end"),
		Query:  ctx.Query("q"),
	}

	if userIDStr := ctx.Query("user_id"); userIDStr != "" {
		userID, err := strconv.ParseUint(userIDStr, 10, 32)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid user_id", err.Error())
			return
		}
		filter.UserID = uint(userID)
	}
	if deptIDStr := ctx.Query("department_id"); deptIDStr != "" {
		deptID, err := strconv.ParseUint(deptIDStr, 10, 32)
		if err != nil {
			Error(ctx, http.StatusBadRequest, "invalid department_id", err.Error())
			return
		}
		id := uint(deptID)
		filter.DepartmentID = &id
	}

	reports, err := c.reportService.ListForUser(p, filter)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, reports)
}

// ListForDepartment 部门某天的日报,附带评论树
func (c *ReportController) ListForDepartment(ctx *gin.Context) {
	departmentID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}
	date := ctx.Query("date")

	p := CurrentPrincipal(ctx)
	reports, err := c.reportService.ListForDepartmentAndDate(p, uint(departmentID), date)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	reportIDs := make([]uint, 0, len(reports))
	for _, report := range reports {
		reportIDs = append(reportIDs, report.ID)
	}

	trees, err := c.commentService.ListTreesByReportIDs(reportIDs)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, gin.H{
		"reports":  reports,
		"comments": trees,
	})
}

// ListMissing 部门某天未提交日报的成员
func (c *ReportController) ListMissing(ctx *gin.Context) {
	departmentID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid department id", err.Error())
		return
	}
	date := ctx.Query("date")

	users, err := c.reportService.MissingForDepartmentAndDate(CurrentPrincipal(ctx), uint(departmentID), date)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, users)
}
