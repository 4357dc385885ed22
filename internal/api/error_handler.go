package api

import (
	"errors"
	"net/http"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/dogukanveziroglu/DailyReporter/internal/utils"
	"github.com/gin-gonic/gin"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}

// RespondError 将业务错误映射为 HTTP 响应
func RespondError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError

	switch {
	case errors.Is(err, auth.ErrForbidden):
		Error(c, http.StatusForbidden, "forbidden", "")
	case errors.Is(err, auth.ErrInvalidToken):
		Error(c, http.StatusUnauthorized, "unauthorized", "")
	case errors.Is(err, service.ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, "invalid credentials", "")
	case errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrUserNotFound):
		Error(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrCrossReportParent):
		Error(c, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		Error(c, http.StatusConflict, "username already taken", "")
	case errors.As(err, &validationErr):
		Error(c, http.StatusBadRequest, "invalid request", validationErr.Message)
	default:
		Error(c, http.StatusInternalServerError, "internal server error", err.Error())
	}
}
