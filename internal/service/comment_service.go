package service

import (
	"sort"
	"strings"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/metrics"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
)

// CommentNode 评论树节点,Depth 为嵌套深度(顶层为 0)
type CommentNode struct {
	Comment *model.CommentModel `json:"comment"`
	Depth   int                 `json:"depth"`
}

// CommentService 评论服务接口
type CommentService interface {
	ListTreesByReportIDs(reportIDs []uint) (map[uint][]CommentNode, error)
	Create(p *auth.Principal, req *CreateCommentRequest) (*model.CommentModel, error)
	CanReply(report *model.ReportModel, comment *model.CommentModel, p *auth.Principal) bool
	CanCreateTopLevel(p *auth.Principal) bool
}

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	ReportID        uint   `json:"report_id" binding:"required"` // 日报 ID
	Content         string `json:"content"`                      // 评论内容
	ParentCommentID *uint  `json:"parent_comment_id"`            // 父评论 ID(回复时)
}

// commentService 评论服务实现
type commentService struct {
	comments repository.CommentRepository
	reports  repository.ReportRepository
}

// NewCommentService 创建评论服务
func NewCommentService(comments repository.CommentRepository, reports repository.ReportRepository) CommentService {
	return &commentService{comments: comments, reports: reports}
}

// ListTreesByReportIDs 拉取评论并按日报构建嵌套视图
func (s *commentService) ListTreesByReportIDs(reportIDs []uint) (map[uint][]CommentNode, error) {
	comments, err := s.comments.FindByReportIDs(reportIDs)
	if err != nil {
		return nil, err
	}
	return BuildTrees(comments), nil
}

// BuildTrees 将平铺评论集合构建为按日报分组的先序遍历序列
// 每组按 (created_at, id) 升序,id 保证同一时间戳下输出稳定;
// 遍历使用显式栈,病态深度的输入不会耗尽调用栈
func BuildTrees(comments []*model.CommentModel) map[uint][]CommentNode {
	perReport := map[uint][]*model.CommentModel{}
	for _, c := range comments {
		perReport[c.ReportID] = append(perReport[c.ReportID], c)
	}

	out := make(map[uint][]CommentNode, len(perReport))
	for reportID, arr := range perReport {
		// 按父评论分组,顶层分组的键为 0(评论 ID 自增,0 不会冲突)
		children := map[uint][]*model.CommentModel{}
		for _, c := range arr {
			var parentID uint
			if c.ParentCommentID != nil {
				parentID = *c.ParentCommentID
			}
			children[parentID] = append(children[parentID], c)
		}
		for k := range children {
			group := children[k]
			sort.SliceStable(group, func(i, j int) bool {
				if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
					return group[i].CreatedAt.Before(group[j].CreatedAt)
				}
				return group[i].ID < group[j].ID
			})
		}

		type frame struct {
			comment *model.CommentModel
			depth   int
		}
		ordered := make([]CommentNode, 0, len(arr))
		stack := make([]frame, 0, len(arr))

		// 逆序压栈保持组内升序输出
		roots := children[0]
		for i := len(roots) - 1; i >= 0; i-- {
			stack = append(stack, frame{roots[i], 0})
		}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ordered = append(ordered, CommentNode{Comment: f.comment, Depth: f.depth})

			kids := children[f.comment.ID]
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, frame{kids[i], f.depth + 1})
			}
		}

		out[reportID] = ordered
	}
	return out
}

// CanReply 回复资格:仅日报作者本人、角色低于 lead 档、且不是回复自己的评论
// 高权限角色只做顶层批注,日报作者负责答复
func (s *commentService) CanReply(report *model.ReportModel, comment *model.CommentModel, p *auth.Principal) bool {
	if report == nil || comment == nil || p == nil || p.UserID == 0 {
		return false
	}
	if p.UserID != report.UserID {
		return false
	}
	if auth.Weight(auth.CurrentRole(p)) >= auth.Weight(auth.RoleLead) {
		return false
	}
	if comment.AuthorUserID == p.UserID {
		return false
	}
	return true
}

// CanCreateTopLevel 顶层评论资格:lead 及以上
func (s *commentService) CanCreateTopLevel(p *auth.Principal) bool {
	return auth.HasMinRole(p, auth.RoleLead)
}

// Create 创建评论
// 资格在写入时基于当前主体和存储中的行重新校验,
// 不信任请求方早前计算的任何资格结论(角色可能已变更)
func (s *commentService) Create(p *auth.Principal, req *CreateCommentRequest) (*model.CommentModel, error) {
	if p == nil || p.UserID == 0 {
		return nil, auth.ErrForbidden
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	report, err := s.reports.FindByID(req.ReportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	kind := "top_level"
	if req.ParentCommentID == nil {
		if err := auth.RequireMinimum(p, auth.RoleLead); err != nil {
			return nil, err
		}
	} else {
		kind = "reply"
		parent, err := s.comments.FindByID(*req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCommentNotFound
		}
		// 跨日报的父子边在写入前拒绝
		if parent.ReportID != report.ID {
			return nil, ErrCrossReportParent
		}
		if !s.CanReply(report, parent, p) {
			return nil, auth.ErrForbidden
		}
	}

	comment := &model.CommentModel{
		ReportID:        report.ID,
		AuthorUserID:    p.UserID,
		ParentCommentID: req.ParentCommentID,
		Content:         content,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.comments.Save(comment); err != nil {
		return nil, err
	}

	metrics.RecordCommentCreated(kind)
	return comment, nil
}
