package service

import "errors"

// 校验与查找类哨兵错误
// 调用方据此区分校验失败、鉴权失败(auth.ErrForbidden)与意外存储错误
var (
	ErrEmptyContent       = errors.New("content must not be empty")
	ErrInvalidDate        = errors.New("date must be in YYYY-MM-DD format")
	ErrReportNotFound     = errors.New("report not found")
	ErrCommentNotFound    = errors.New("parent comment not found")
	ErrCrossReportParent  = errors.New("parent comment belongs to a different report")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
