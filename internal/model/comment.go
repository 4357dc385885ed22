package model

import (
	"errors"
	"time"
)

// CommentModel 日报评论数据模型
// ParentCommentID 指向同一日报下的另一条评论,构成评论树
type CommentModel struct {
	ID              uint   `gorm:"primaryKey;autoIncrement"`
	ReportID        uint   `gorm:"not null;index"`
	AuthorUserID    uint   `gorm:"not null;index"`
	ParentCommentID *uint  `gorm:"index"`
	Content         string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (CommentModel) TableName() string {
	return "comments"
}

// Validate 验证评论模型
func (cm *CommentModel) Validate() error {
	if cm.ReportID == 0 {
		return errors.New("comment report is required")
	}
	if cm.AuthorUserID == 0 {
		return errors.New("comment author is required")
	}
	if cm.Content == "" {
		return errors.New("comment content is required")
	}
	return nil
}

// IsRoot 是否为顶层评论
func (cm *CommentModel) IsRoot() bool {
	return cm.ParentCommentID == nil
}
