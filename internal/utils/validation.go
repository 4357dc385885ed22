package utils

import (
	"regexp"
	"strings"
	"time"
)

// 错误定义
var (
	ErrEmptyUsername         = &ValidationError{Code: "EMPTY_USERNAME", Message: "username cannot be empty"}
	ErrInvalidUsernameFormat = &ValidationError{Code: "INVALID_USERNAME_FORMAT", Message: "username contains invalid characters"}
	ErrUsernameTooLong       = &ValidationError{Code: "USERNAME_TOO_LONG", Message: "username exceeds maximum length"}
	ErrInvalidDateFormat     = &ValidationError{Code: "INVALID_DATE_FORMAT", Message: "date must be in YYYY-MM-DD format"}
	ErrEmptyString           = &ValidationError{Code: "EMPTY_STRING", Message: "string cannot be empty"}
	ErrStringTooLong         = &ValidationError{Code: "STRING_TOO_LONG", Message: "string exceeds maximum length"}
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateDate 验证日期格式,要求 YYYY-MM-DD
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDateFormat
	}
	return nil
}

// ValidateUsername 验证用户名格式
func ValidateUsername(username string) error {
	// 1. 检查是否为空
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return ErrEmptyUsername
	}

	// 2. 检查格式（只允许字母、数字、点、连字符、下划线）
	if !usernamePattern.MatchString(trimmed) {
		return ErrInvalidUsernameFormat
	}

	// 3. 检查长度（最大 64 字符）
	if len(trimmed) > 64 {
		return ErrUsernameTooLong
	}

	return nil
}

// TrimAndValidate 清理并验证字符串
func TrimAndValidate(s string, maxLen int) (string, error) {
	// 1. 去除首尾空白字符
	trimmed := strings.TrimSpace(s)

	// 2. 检查是否为空
	if trimmed == "" {
		return "", ErrEmptyString
	}

	// 3. 检查长度
	if maxLen > 0 && len(trimmed) > maxLen {
		return "", ErrStringTooLong
	}

	return trimmed, nil
}

// ValidationError 验证错误
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
