package repository

import (
	"errors"

	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"gorm.io/gorm"
)

// CommentRepository 评论仓储接口
// 评论只追加,不修改不删除
type CommentRepository interface {
	Save(comment *model.CommentModel) error
	FindByID(id uint) (*model.CommentModel, error)
	FindByReportIDs(reportIDs []uint) ([]*model.CommentModel, error)
}

// commentRepository 评论仓储实现
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓储
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Save 保存评论
func (r *commentRepository) Save(comment *model.CommentModel) error {
	return r.db.Create(comment).Error
}

// FindByID 根据 ID 查找评论,不存在返回 nil
func (r *commentRepository) FindByID(id uint) (*model.CommentModel, error) {
	var comment model.CommentModel
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// FindByReportIDs 拉取多个日报的全部评论
// 按 (created_at, id) 升序,id 作为同一时间戳下的稳定次序
func (r *commentRepository) FindByReportIDs(reportIDs []uint) ([]*model.CommentModel, error) {
	if len(reportIDs) == 0 {
		return nil, nil
	}
	var comments []*model.CommentModel
	err := r.db.Where("report_id IN ?", reportIDs).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}
