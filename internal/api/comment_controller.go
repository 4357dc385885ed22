package api

import (
	"net/http"
	"strconv"

	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/gin-gonic/gin"
)

// CommentController 评论控制器
type CommentController struct {
	commentService service.CommentService
}

// NewCommentController 创建评论控制器
func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// Create 创建评论,顶层评论与回复共用
func (c *CommentController) Create(ctx *gin.Context) {
	var req service.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	comment, err := c.commentService.Create(CurrentPrincipal(ctx), &req)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, comment)
}

// ListForReport 查询单个日报的评论树
func (c *CommentController) ListForReport(ctx *gin.Context) {
	reportID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		Error(ctx, http.StatusBadRequest, "invalid report id", err.Error())
		return
	}

	trees, err := c.commentService.ListTreesByReportIDs([]uint{uint(reportID)})
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, trees[uint(reportID)])
}
